package handler

import (
	"time"

	"mintgate/internal/issuance/models"
)

// AssetResponse is the HTTP representation of an issued asset.
type AssetResponse struct {
	ID          uint64             `json:"id"`
	Owner       string             `json:"owner"`
	MetadataRef string             `json:"metadata_ref"`
	Attributes  AttributesResponse `json:"attributes"`
	IssuedAt    time.Time          `json:"issued_at"`
}

// AttributesResponse mirrors the stored attributes.
type AttributesResponse struct {
	SelectionID uint64 `json:"selection_id"`
	OriginHash  string `json:"origin_hash"`
	Message     string `json:"message"`
}

// MetadataResponse is the HTTP response for GET /assets/{id}/metadata.
type MetadataResponse struct {
	ID          uint64 `json:"id"`
	MetadataRef string `json:"metadata_ref"`
}

// AccountResponse is the HTTP response for GET /assets/{id}/account.
type AccountResponse struct {
	ID      uint64 `json:"id"`
	Account string `json:"account"`
}

// FromRecord converts a domain AssetRecord to an HTTP response.
func FromRecord(record *models.AssetRecord) *AssetResponse {
	return &AssetResponse{
		ID:          record.ID,
		Owner:       record.Owner.String(),
		MetadataRef: record.MetadataRef,
		Attributes: AttributesResponse{
			SelectionID: record.Attributes.SelectionID,
			OriginHash:  record.Attributes.OriginHash.String(),
			Message:     record.Attributes.Message,
		},
		IssuedAt: record.IssuedAt,
	}
}
