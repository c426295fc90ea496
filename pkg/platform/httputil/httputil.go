// Package httputil holds the shared JSON encode/decode helpers for HTTP
// handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "mintgate/pkg/domain-errors"
)

// Validatable is implemented by request bodies that validate and parse
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a domain error to its HTTP status and writes the error
// body. Internal errors omit the description so server details never leak to
// clients.
func WriteError(w http.ResponseWriter, err error) {
	var gErr dErrors.GatewayError
	if !errors.As(err, &gErr) {
		gErr = dErrors.GatewayError{Code: dErrors.CodeInternal, Message: "internal error", Err: err}
	}

	body := map[string]string{"error": string(gErr.Code)}
	if gErr.Code != dErrors.CodeInternal {
		body["error_description"] = gErr.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(gErr.Code), body)
}

// DecodeAndPrepare decodes the request body into T and runs its validation.
// On failure it writes the error response and returns ok=false.
func DecodeAndPrepare[T any, PT interface {
	Validatable
	*T
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	req := PT(new(T))
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
