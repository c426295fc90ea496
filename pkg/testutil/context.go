package testutil

import (
	"net/http"
	"time"

	"mintgate/pkg/domain"
	"mintgate/pkg/requestcontext"
)

// WithCaller adds an authenticated principal to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the address is not valid, the request is returned unchanged.
func WithCaller(req *http.Request, addr string) *http.Request {
	parsed, err := domain.ParseAddress(addr)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithCaller(req.Context(), parsed))
}

// WithTime pins the request clock, so deadline and epoch checks are
// deterministic in handler tests.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
