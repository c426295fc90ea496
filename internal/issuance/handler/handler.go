package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"mintgate/internal/issuance"
	"mintgate/internal/issuance/models"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/httputil"
	"mintgate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_service.go -package=mocks

// Service defines the interface for issuance operations.
type Service interface {
	MintWithVoucher(ctx context.Context, req issuance.VoucherMintRequest) (*models.AssetRecord, error)
	MintWithProof(ctx context.Context, req issuance.ProofMintRequest) (*models.AssetRecord, error)
	MintDirect(ctx context.Context, req issuance.DirectMintRequest) (*models.AssetRecord, error)
	GetAsset(ctx context.Context, id uint64) (*models.AssetRecord, error)
	SubAccount(ctx context.Context, id uint64) (domain.Address, error)
}

// Handler wires issuance endpoints to the issuance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an issuance handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts all issuance endpoints on one router. The application
// router mounts the handlers individually instead so the mint routes can sit
// behind different authentication groups.
func (h *Handler) Register(r chi.Router) {
	r.Post("/mint/voucher", h.HandleMintVoucher)
	r.Post("/mint/proof", h.HandleMintProof)
	r.Post("/mint/direct", h.HandleMintDirect)
	r.Get("/assets/{id}", h.HandleGetAsset)
	r.Get("/assets/{id}/metadata", h.HandleGetMetadata)
	r.Get("/assets/{id}/account", h.HandleGetAccount)
}

// HandleMintVoucher handles POST /mint/voucher requests. Anyone may relay a
// voucher; the asset goes to the recipient the issuer signed over.
func (h *Handler) HandleMintVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[VoucherMintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.MintWithVoucher(ctx, issuance.VoucherMintRequest{
		Voucher:    req.Voucher(),
		Attributes: req.Attributes.parsed(),
		ContentID:  req.ContentID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "voucher mint rejected",
			"request_id", requestID,
			"recipient", req.Recipient,
			"nonce", req.Nonce,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "voucher mint accepted",
		"request_id", requestID,
		"asset_id", record.ID,
		"owner", record.Owner.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleMintProof handles POST /mint/proof requests.
func (h *Handler) HandleMintProof(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[ProofMintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.MintWithProof(ctx, issuance.ProofMintRequest{
		Proof:      req.Claim(caller),
		Attributes: req.Attributes.parsed(),
		ContentID:  req.ContentID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "proof mint rejected",
			"request_id", requestID,
			"caller", caller.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "proof mint accepted",
		"request_id", requestID,
		"asset_id", record.ID,
		"owner", record.Owner.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleMintDirect handles POST /mint/direct requests.
func (h *Handler) HandleMintDirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[DirectMintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.MintDirect(ctx, issuance.DirectMintRequest{
		Caller:     caller,
		Attributes: req.Attributes.parsed(),
		ContentID:  req.ContentID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "direct mint rejected",
			"request_id", requestID,
			"caller", caller.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "direct mint accepted",
		"request_id", requestID,
		"asset_id", record.ID,
		"owner", record.Owner.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleGetAsset handles GET /assets/{id} requests.
func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	record, err := h.service.GetAsset(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleGetMetadata handles GET /assets/{id}/metadata requests.
func (h *Handler) HandleGetMetadata(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	record, err := h.service.GetAsset(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &MetadataResponse{ID: record.ID, MetadataRef: record.MetadataRef})
}

// HandleGetAccount handles GET /assets/{id}/account requests.
func (h *Handler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	account, err := h.service.SubAccount(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AccountResponse{ID: id, Account: account.String()})
}

func assetID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "asset id must be a non-negative integer"))
		return 0, false
	}
	return id, true
}
