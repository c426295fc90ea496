package models

import (
	"time"

	"mintgate/pkg/domain"
)

// Attributes are the per-asset fields fixed at issuance. OriginHash travels
// as a hex string on the wire; the handler layer converts.
type Attributes struct {
	SelectionID uint64      `json:"selection_id"`
	OriginHash  domain.Hash `json:"-"`
	Message     string      `json:"message"`
}

// AssetRecord is created exactly once per successful admission. The id is a
// strictly increasing counter starting at 0; it is never reused and the record
// is never mutated after creation (ownership transfer belongs to the external
// ledger).
type AssetRecord struct {
	ID          uint64         `json:"id"`
	Owner       domain.Address `json:"owner"`
	MetadataRef string         `json:"metadata_ref"`
	Attributes  Attributes     `json:"attributes"`
	IssuedAt    time.Time      `json:"issued_at"`
}
