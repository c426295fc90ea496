package handler

import (
	"strings"

	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

// AddressRequest is the HTTP request body for endpoints that take a single
// address: issuer key rotation, allow-list curation, admin grants, ownership
// transfer.
type AddressRequest struct {
	Address string `json:"address"`

	parsed domain.Address
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AddressRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	addr, err := domain.ParseAddress(strings.TrimSpace(r.Address))
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "address must be a 20-byte hex address")
	}
	r.parsed = addr
	return nil
}

// VerifierRequest is the HTTP request body for PUT /admin/verifier.
type VerifierRequest struct {
	Ref     string `json:"ref"`
	GroupID uint64 `json:"group_id"`
}

// Validate validates the request.
func (r *VerifierRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Ref = strings.TrimSpace(r.Ref)
	if r.Ref == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ref is required")
	}
	return nil
}

// BaseURIRequest is the HTTP request body for PUT /admin/base-uri.
type BaseURIRequest struct {
	URI string `json:"uri"`
}

// Validate validates the request.
func (r *BaseURIRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.URI = strings.TrimSpace(r.URI)
	if r.URI == "" {
		return dErrors.New(dErrors.CodeBadRequest, "uri is required")
	}
	return nil
}

// EnabledRequest is the HTTP request body for PUT /admin/allowlist/enabled.
type EnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// Validate validates the request.
func (r *EnabledRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}
