// Package handler exposes the permissioned configuration surface. Every
// route requires an authenticated caller; the access service enforces which
// axis (owner or admin) each operation needs.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"mintgate/internal/access"
	"mintgate/internal/audit"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/httputil"
	"mintgate/pkg/requestcontext"
)

// Handler wires admin endpoints to the access service.
type Handler struct {
	service *access.Service
	logger  *slog.Logger
	audit   *audit.Publisher
}

// New constructs an access handler with its dependencies.
func New(service *access.Service, logger *slog.Logger, publisher *audit.Publisher) *Handler {
	return &Handler{service: service, logger: logger, audit: publisher}
}

// Register mounts admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Put("/issuer-key", h.HandleSetIssuerKey)
		r.Put("/verifier", h.HandleSetVerifier)
		r.Put("/base-uri", h.HandleSetBaseURI)
		r.Put("/owner", h.HandleTransferOwnership)

		r.Route("/allowlist", func(r chi.Router) {
			r.Get("/", h.HandleListAllowed)
			r.Post("/", h.HandleAddAllowed)
			r.Delete("/{address}", h.HandleRemoveAllowed)
			r.Put("/enabled", h.HandleSetAllowListEnabled)
		})

		r.Route("/admins", func(r chi.Router) {
			r.Get("/", h.HandleListAdmins)
			r.Post("/", h.HandleGrantAdmin)
			r.Delete("/{address}", h.HandleRevokeAdmin)
		})
	})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	caller := requestcontext.Caller(r.Context())
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return caller, true
}

// record logs the change and emits the audit event after the service call
// succeeded.
func (h *Handler) record(r *http.Request, caller domain.Address, action audit.Action, detail string) {
	ctx := r.Context()
	h.audit.Emit(ctx, audit.Event{
		Action:    action,
		Caller:    caller,
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	})
	h.logger.InfoContext(ctx, "configuration changed",
		"request_id", requestcontext.RequestID(ctx),
		"caller", caller.String(),
		"action", string(action),
		"detail", detail,
	)
}

// HandleSetIssuerKey handles PUT /admin/issuer-key requests.
func (h *Handler) HandleSetIssuerKey(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddressRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	if err := h.service.SetIssuerKey(r.Context(), caller, req.parsed); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.record(r, caller, audit.ActionConfigChanged, "issuer_key="+req.parsed.String())
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleSetVerifier handles PUT /admin/verifier requests.
func (h *Handler) HandleSetVerifier(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerifierRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	if err := h.service.SetVerifier(r.Context(), caller, req.Ref, req.GroupID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.record(r, caller, audit.ActionConfigChanged, "verifier="+req.Ref)
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleSetBaseURI handles PUT /admin/base-uri requests.
func (h *Handler) HandleSetBaseURI(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[BaseURIRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	if err := h.service.SetBaseMetadataURI(r.Context(), caller, req.URI); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.record(r, caller, audit.ActionConfigChanged, "base_uri="+req.URI)
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleTransferOwnership handles PUT /admin/owner requests.
func (h *Handler) HandleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddressRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	if err := h.service.TransferOwnership(r.Context(), caller, req.parsed); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.record(r, caller, audit.ActionOwnershipChanged, "owner="+req.parsed.String())
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleListAllowed handles GET /admin/allowlist requests.
func (h *Handler) HandleListAllowed(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	members, err := h.service.ListAllowed(r.Context(), caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addressList(members))
}

// HandleAddAllowed handles POST /admin/allowlist requests.
func (h *Handler) HandleAddAllowed(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddressRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	if err := h.service.AddAllowed(r.Context(), caller, req.parsed); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.record(r, caller, audit.ActionAllowListChanged, "added="+req.parsed.String())
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleRemoveAllowed handles DELETE /admin/allowlist/{address} requests.
func (h *Handler) HandleRemoveAllowed(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	addr, err := domain.ParseAddress(strings.TrimSpace(chi.URLParam(r, "address")))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "address must be a 20-byte hex address"))
		return
	}
	if err := h.service.RemoveAllowed(r.Context(), caller, addr); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.record(r, caller, audit.ActionAllowListChanged, "removed="+addr.String())
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleSetAllowListEnabled handles PUT /admin/allowlist/enabled requests.
func (h *Handler) HandleSetAllowListEnabled(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EnabledRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	if err := h.service.SetAllowListEnabled(r.Context(), caller, req.Enabled); err != nil {
		httputil.WriteError(w, err)
		return
	}
	detail := "enabled=false"
	if req.Enabled {
		detail = "enabled=true"
	}
	h.record(r, caller, audit.ActionAllowListChanged, detail)
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleListAdmins handles GET /admin/admins requests.
func (h *Handler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	admins, err := h.service.Admins(caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addressList(admins))
}

// HandleGrantAdmin handles POST /admin/admins requests.
func (h *Handler) HandleGrantAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddressRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	if err := h.service.GrantAdmin(r.Context(), caller, req.parsed); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.record(r, caller, audit.ActionConfigChanged, "admin_granted="+req.parsed.String())
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleRevokeAdmin handles DELETE /admin/admins/{address} requests.
func (h *Handler) HandleRevokeAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	addr, err := domain.ParseAddress(strings.TrimSpace(chi.URLParam(r, "address")))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "address must be a 20-byte hex address"))
		return
	}
	if err := h.service.RevokeAdmin(r.Context(), caller, addr); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.record(r, caller, audit.ActionConfigChanged, "admin_revoked="+addr.String())
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

type addressListResponse struct {
	Addresses []string `json:"addresses"`
}

func addressList(addrs []domain.Address) addressListResponse {
	out := addressListResponse{Addresses: make([]string, 0, len(addrs))}
	for _, a := range addrs {
		out.Addresses = append(out.Addresses, a.String())
	}
	return out
}
