package issuance

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"mintgate/internal/access"
	"mintgate/internal/accounts"
	"mintgate/internal/audit"
	"mintgate/internal/gate"
	"mintgate/internal/issuance/models"
	"mintgate/internal/ledger"
	"mintgate/internal/platform/metrics"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/sentinel"
	"mintgate/pkg/requestcontext"
)

// Deployment pins the immutable identity of this registry instance, shared by
// the typed-data domain and the sub-account derivation.
type Deployment struct {
	ChainID  uint64
	Registry domain.Address
}

// Service is the asset issuance engine. Each Mint method runs one admission
// strategy and, on acceptance, performs issuance inside a single transaction:
// credential consumption, id allocation, record persistence, and the factory
// call commit or roll back together.
//
// The mutex is the reentrancy guard: collaborators reached during issuance
// cannot re-enter a mint entry point, and concurrent requests are globally
// serialized, so two requests racing on one credential key resolve
// deterministically in arrival order.
type Service struct {
	mu sync.Mutex

	voucherGate *gate.VoucherGate
	proofGate   *gate.ProofGate
	allowGate   *gate.AllowListGate

	ledger  ledger.Store
	assets  Store
	storeTx StoreTx
	factory accounts.Factory
	cfg     *access.Service
	policy  MetadataPolicy
	deploy  Deployment

	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
	tracer  trace.Tracer
}

// Params collects the service dependencies.
type Params struct {
	VoucherGate *gate.VoucherGate
	ProofGate   *gate.ProofGate
	AllowGate   *gate.AllowListGate
	Ledger      ledger.Store
	Assets      Store
	StoreTx     StoreTx
	Factory     accounts.Factory
	Access      *access.Service
	Policy      MetadataPolicy
	Deployment  Deployment
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Audit       *audit.Publisher
}

func NewService(p Params) *Service {
	return &Service{
		voucherGate: p.VoucherGate,
		proofGate:   p.ProofGate,
		allowGate:   p.AllowGate,
		ledger:      p.Ledger,
		assets:      p.Assets,
		storeTx:     p.StoreTx,
		factory:     p.Factory,
		cfg:         p.Access,
		policy:      p.Policy,
		deploy:      p.Deployment,
		logger:      p.Logger,
		metrics:     p.Metrics,
		audit:       p.Audit,
		tracer:      otel.Tracer("mintgate/issuance"),
	}
}

// VoucherMintRequest mints against a signed voucher. The asset owner is the
// voucher's recipient regardless of who submits the request.
type VoucherMintRequest struct {
	Voucher    gate.VoucherRequest
	Attributes models.Attributes
	ContentID  string
}

// ProofMintRequest mints against a membership proof; the authenticated caller
// becomes the owner.
type ProofMintRequest struct {
	Proof      gate.ProofRequest
	Attributes models.Attributes
	ContentID  string
}

// DirectMintRequest mints for an allow-listed caller.
type DirectMintRequest struct {
	Caller     domain.Address
	Attributes models.Attributes
	ContentID  string
}

const (
	strategyVoucher = "voucher"
	strategyProof   = "proof"
	strategyDirect  = "direct"
)

func (s *Service) MintWithVoucher(ctx context.Context, req VoucherMintRequest) (*models.AssetRecord, error) {
	ctx, span := s.tracer.Start(ctx, "issuance.MintWithVoucher")
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveMint(strategyVoucher, start)

	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.voucherGate.Verify(ctx, req.Voucher)
	if err != nil {
		return nil, s.reject(ctx, strategyVoucher, req.Voucher.Recipient, err)
	}
	return s.issue(ctx, strategyVoucher, req.Voucher.Recipient, &key, req.Attributes, req.ContentID)
}

func (s *Service) MintWithProof(ctx context.Context, req ProofMintRequest) (*models.AssetRecord, error) {
	ctx, span := s.tracer.Start(ctx, "issuance.MintWithProof")
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveMint(strategyProof, start)

	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.proofGate.Verify(ctx, req.Proof)
	if err != nil {
		return nil, s.reject(ctx, strategyProof, req.Proof.Caller, err)
	}
	return s.issue(ctx, strategyProof, req.Proof.Caller, &key, req.Attributes, req.ContentID)
}

func (s *Service) MintDirect(ctx context.Context, req DirectMintRequest) (*models.AssetRecord, error) {
	ctx, span := s.tracer.Start(ctx, "issuance.MintDirect")
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveMint(strategyDirect, start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.allowGate.Verify(ctx, req.Caller); err != nil {
		return nil, s.reject(ctx, strategyDirect, req.Caller, err)
	}
	// No one-time-use key: direct mints are gated by membership alone.
	return s.issue(ctx, strategyDirect, req.Caller, nil, req.Attributes, req.ContentID)
}

// GetAsset returns a previously issued record.
func (s *Service) GetAsset(ctx context.Context, id uint64) (*models.AssetRecord, error) {
	record, err := s.assets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "asset does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "asset lookup failed")
	}
	return record, nil
}

// SubAccount recomputes the sub-account address for an issued asset from the
// public derivation; nothing is read from the factory.
func (s *Service) SubAccount(ctx context.Context, id uint64) (domain.Address, error) {
	if _, err := s.GetAsset(ctx, id); err != nil {
		return "", err
	}
	cfg := s.cfg.Snapshot()
	return accounts.Derive(cfg.AccountTemplate, s.deploy.ChainID, s.deploy.Registry, id, 0), nil
}

// issue runs the transactional half of a mint. The caller holds s.mu and has
// already passed a gate; key is nil for strategies without one-time-use
// credentials.
func (s *Service) issue(ctx context.Context, strategy string, owner domain.Address, key *domain.Hash, attrs models.Attributes, contentID string) (*models.AssetRecord, error) {
	var record *models.AssetRecord

	txErr := s.storeTx.RunInTx(ctx, func(ctx context.Context) error {
		consumed := false
		var allocated *uint64

		// Compensation for the in-memory stores; under SQL the surrounding
		// rollback makes these no-ops.
		abort := func(err error) error {
			if allocated != nil {
				if rErr := s.assets.ReleaseID(ctx, *allocated); rErr != nil {
					s.logger.ErrorContext(ctx, "failed to release asset id", "id", *allocated, "error", rErr.Error())
				}
			}
			if consumed {
				if rErr := s.ledger.Release(ctx, *key); rErr != nil {
					s.logger.ErrorContext(ctx, "failed to release credential key", "key", key.String(), "error", rErr.Error())
				}
			}
			return err
		}

		if key != nil {
			if err := s.ledger.TryConsume(ctx, *key); err != nil {
				if errors.Is(err, sentinel.ErrAlreadyUsed) {
					return dErrors.New(dErrors.CodeCredentialAlreadyUsed, "credential already consumed")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "ledger unavailable")
			}
			consumed = true
		}

		id, err := s.assets.NextID(ctx)
		if err != nil {
			return abort(dErrors.Wrap(err, dErrors.CodeInternal, "asset id allocation failed"))
		}
		allocated = &id

		rec := &models.AssetRecord{
			ID:         id,
			Owner:      owner,
			Attributes: attrs,
			IssuedAt:   requestcontext.Now(ctx),
		}
		cfg := s.cfg.Snapshot()
		ref, err := s.policy.Render(rec, contentID, cfg)
		if err != nil {
			return abort(dErrors.Wrap(err, dErrors.CodeBadRequest, "metadata composition failed"))
		}
		rec.MetadataRef = ref

		// Fail-closed: a factory failure aborts the whole request, including
		// the consumption above.
		if _, err := s.factory.CreateAccount(ctx, cfg.AccountTemplate, s.deploy.ChainID, s.deploy.Registry, id, 0, nil); err != nil {
			s.metrics.RecordFactoryFailure()
			return abort(dErrors.Wrap(err, dErrors.CodeCollaboratorFailure, "sub-account factory call failed"))
		}

		if err := s.assets.Save(ctx, rec); err != nil {
			return abort(dErrors.Wrap(err, dErrors.CodeInternal, "asset persistence failed"))
		}

		record = rec
		return nil
	})
	if txErr != nil {
		return nil, s.reject(ctx, strategy, owner, txErr)
	}

	s.metrics.RecordAdmission(strategy, "accepted")
	s.metrics.RecordIssued()
	s.audit.Emit(ctx, audit.Event{
		Action:    audit.ActionAssetIssued,
		Caller:    owner,
		Strategy:  strategy,
		AssetID:   &record.ID,
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "asset issued",
		"strategy", strategy,
		"asset_id", record.ID,
		"owner", owner.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return record, nil
}

// reject records the failed admission and passes the error through unchanged.
func (s *Service) reject(ctx context.Context, strategy string, caller domain.Address, err error) error {
	s.metrics.RecordAdmission(strategy, "rejected")
	s.audit.Emit(ctx, audit.Event{
		Action:    audit.ActionAdmissionRejected,
		Caller:    caller,
		Strategy:  strategy,
		Detail:    err.Error(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return err
}
