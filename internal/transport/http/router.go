// Package httptransport assembles the HTTP surface: middleware chain, module
// routers, health, and metrics. Business logic stays in the module services;
// this package only wires them to routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accesshandler "mintgate/internal/access/handler"
	issuancehandler "mintgate/internal/issuance/handler"
	"mintgate/internal/platform/middleware"
)

// Deps are the per-module handlers and cross-cutting pieces the router mounts.
type Deps struct {
	Issuance *issuancehandler.Handler
	Access   *accesshandler.Handler

	Validator middleware.JWTValidator
	Logger    *slog.Logger

	// Health reports readiness of backing stores; nil checks are skipped.
	Health func(r *http.Request) error

	RequestTimeout time.Duration
}

// NewRouter builds the full application router.
//
// Route groups and their authentication requirements:
//   - /mint/voucher is open: vouchers are self-authorizing and relayable.
//   - /mint/proof, /mint/direct, and /admin require an authenticated caller.
//   - /assets, /healthz, and /metrics are open reads.
func NewRouter(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if d.Health != nil {
			if err := d.Health(req); err != nil {
				d.Logger.ErrorContext(req.Context(), "health check failed", "error", err.Error())
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/mint/voucher", d.Issuance.HandleMintVoucher)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireCaller(d.Validator, d.Logger))
		r.Post("/mint/proof", d.Issuance.HandleMintProof)
		r.Post("/mint/direct", d.Issuance.HandleMintDirect)
		d.Access.Register(r)
	})

	r.Get("/assets/{id}", d.Issuance.HandleGetAsset)
	r.Get("/assets/{id}/metadata", d.Issuance.HandleGetMetadata)
	r.Get("/assets/{id}/account", d.Issuance.HandleGetAccount)

	return r
}
