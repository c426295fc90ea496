// Package domainerrors provides coded errors that travel from services to the
// transport layer. Handlers translate codes to HTTP statuses with ToHTTPStatus;
// services construct them with New or Wrap and tests assert on them with Is.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the class of failure. Codes are part of the API surface:
// they appear verbatim in JSON error envelopes.
type Code string

const (
	// Admission failures.
	CodeExpiredCredential     Code = "expired_credential"
	CodeInvalidSignature      Code = "invalid_signature"
	CodeCredentialAlreadyUsed Code = "credential_already_used"
	CodeProofRejected         Code = "proof_rejected"
	CodeNotAllowListed        Code = "not_allow_listed"
	CodePermissionDenied      Code = "permission_denied"
	CodeCollaboratorFailure   Code = "collaborator_failure"

	// Infrastructure and transport.
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// GatewayError carries a code, a human-readable message, and an optional cause.
type GatewayError struct {
	Code    Code
	Message string
	Err     error
}

func (e GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e GatewayError) Unwrap() error { return e.Err }

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return GatewayError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return GatewayError{Code: code, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var gw GatewayError
	if errors.As(err, &gw) {
		return gw.Code == code
	}
	return false
}

// ToHTTPStatus maps a code to the HTTP status handlers should emit.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidSignature:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodePermissionDenied, CodeNotAllowListed, CodeExpiredCredential, CodeProofRejected:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeCredentialAlreadyUsed:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeCollaboratorFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
