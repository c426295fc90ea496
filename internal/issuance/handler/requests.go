package handler

import (
	"encoding/hex"
	"strings"

	"mintgate/internal/gate"
	"mintgate/internal/issuance/models"
	"mintgate/internal/verifier"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

const maxMessageLength = 280

// AttributesRequest is the caller-chosen portion of the asset to issue.
type AttributesRequest struct {
	SelectionID uint64 `json:"selection_id"`
	OriginHash  string `json:"origin_hash"`
	Message     string `json:"message"`

	parsedOrigin domain.Hash
}

func (a *AttributesRequest) validate() error {
	if len(a.Message) > maxMessageLength {
		return dErrors.New(dErrors.CodeBadRequest, "message must be at most 280 characters")
	}
	if a.OriginHash != "" {
		h, err := domain.ParseHash(a.OriginHash)
		if err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "origin_hash must be a 32-byte hex string")
		}
		a.parsedOrigin = h
	}
	return nil
}

func (a *AttributesRequest) parsed() models.Attributes {
	return models.Attributes{
		SelectionID: a.SelectionID,
		OriginHash:  a.parsedOrigin,
		Message:     strings.TrimSpace(a.Message),
	}
}

// VoucherMintRequest is the HTTP request body for POST /mint/voucher.
type VoucherMintRequest struct {
	Recipient  string            `json:"recipient"`
	Nonce      uint64            `json:"nonce"`
	Deadline   int64             `json:"deadline"`
	Signature  string            `json:"signature"`
	Attributes AttributesRequest `json:"attributes"`
	ContentID  string            `json:"content_id"`

	parsedRecipient domain.Address
	parsedSignature []byte
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VoucherMintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	recipient, err := domain.ParseAddress(strings.TrimSpace(r.Recipient))
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "recipient must be a 20-byte hex address")
	}
	r.parsedRecipient = recipient

	sig, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(r.Signature), "0x"))
	if err != nil || len(sig) != 65 {
		return dErrors.New(dErrors.CodeBadRequest, "signature must be a 65-byte hex string")
	}
	r.parsedSignature = sig

	return r.Attributes.validate()
}

func (r *VoucherMintRequest) Voucher() gate.VoucherRequest {
	return gate.VoucherRequest{
		Recipient: r.parsedRecipient,
		Nonce:     r.Nonce,
		Deadline:  r.Deadline,
		Signature: r.parsedSignature,
	}
}

// ProofMintRequest is the HTTP request body for POST /mint/proof. The caller
// comes from the authenticated session, not the body.
type ProofMintRequest struct {
	SelectionID   uint64            `json:"selection_id"`
	Root          string            `json:"root"`
	NullifierHash string            `json:"nullifier_hash"`
	Proof         [8]string         `json:"proof"`
	Attributes    AttributesRequest `json:"attributes"`
	ContentID     string            `json:"content_id"`

	parsedRoot      domain.Hash
	parsedNullifier domain.Hash
}

// Validate validates and parses the request.
func (r *ProofMintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	root, err := domain.ParseHash(strings.TrimSpace(r.Root))
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "root must be a 32-byte hex string")
	}
	r.parsedRoot = root

	nullifier, err := domain.ParseHash(strings.TrimSpace(r.NullifierHash))
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "nullifier_hash must be a 32-byte hex string")
	}
	r.parsedNullifier = nullifier

	for _, part := range r.Proof {
		if strings.TrimSpace(part) == "" {
			return dErrors.New(dErrors.CodeBadRequest, "proof must have 8 non-empty elements")
		}
	}

	return r.Attributes.validate()
}

func (r *ProofMintRequest) Claim(caller domain.Address) gate.ProofRequest {
	return gate.ProofRequest{
		Caller:        caller,
		SelectionID:   r.SelectionID,
		Root:          r.parsedRoot,
		NullifierHash: r.parsedNullifier,
		Proof:         verifier.Proof(r.Proof),
	}
}

// DirectMintRequest is the HTTP request body for POST /mint/direct.
type DirectMintRequest struct {
	Attributes AttributesRequest `json:"attributes"`
	ContentID  string            `json:"content_id"`
}

// Validate validates and parses the request.
func (r *DirectMintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return r.Attributes.validate()
}
