package issuance

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"

	"mintgate/internal/access"
	"mintgate/internal/issuance/models"
)

// MetadataPolicy turns stored attributes into the asset's metadata reference.
// Both policies are pure functions of the record and current config; nothing
// is fetched.
type MetadataPolicy interface {
	Render(record *models.AssetRecord, contentID string, cfg access.Config) (string, error)
}

// PointerPolicy points at externally hosted metadata:
// tokenURI = baseMetadataURI + contentID.
type PointerPolicy struct{}

func (PointerPolicy) Render(_ *models.AssetRecord, contentID string, cfg access.Config) (string, error) {
	if contentID == "" {
		return "", fmt.Errorf("pointer policy requires a content id")
	}
	return cfg.BaseMetadataURI + contentID, nil
}

// EmbeddedPolicy composes a fully self-describing data URI: a JSON document
// whose image is the stored message rendered into a minimal SVG, each layer
// base64-encoded.
type EmbeddedPolicy struct{}

type embeddedDocument struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Attributes  []embeddedAttribute `json:"attributes"`
}

type embeddedAttribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="xMinYMin meet" viewBox="0 0 350 350"><style>.base { fill: white; font-family: serif; font-size: 14px; }</style><rect width="100%%" height="100%%" fill="black" /><text x="50%%" y="50%%" class="base" dominant-baseline="middle" text-anchor="middle">%s</text></svg>`

func (EmbeddedPolicy) Render(record *models.AssetRecord, _ string, _ access.Config) (string, error) {
	svg := fmt.Sprintf(svgTemplate, html.EscapeString(record.Attributes.Message))
	image := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	doc := embeddedDocument{
		Name:        fmt.Sprintf("Asset #%d", record.ID),
		Description: record.Attributes.Message,
		Image:       image,
		Attributes: []embeddedAttribute{
			{TraitType: "selection", Value: record.Attributes.SelectionID},
			{TraitType: "origin", Value: record.Attributes.OriginHash.String()},
		},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal embedded metadata: %w", err)
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(raw), nil
}
