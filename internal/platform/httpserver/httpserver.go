package httpserver

import (
	"net/http"
	"time"
)

// New wraps the gateway router in an http.Server with a header read timeout,
// keeping slow clients from pinning mint connections open.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
