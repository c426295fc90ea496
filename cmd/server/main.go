package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"mintgate/internal/access"
	accesshandler "mintgate/internal/access/handler"
	"mintgate/internal/accounts"
	"mintgate/internal/allowlist"
	"mintgate/internal/audit"
	"mintgate/internal/chain/eip712"
	"mintgate/internal/gate"
	"mintgate/internal/issuance"
	issuancehandler "mintgate/internal/issuance/handler"
	"mintgate/internal/ledger"
	"mintgate/internal/platform/config"
	"mintgate/internal/platform/httpserver"
	"mintgate/internal/platform/logger"
	"mintgate/internal/platform/metrics"
	"mintgate/internal/platform/middleware"
	platformredis "mintgate/internal/platform/redis"
	httptransport "mintgate/internal/transport/http"
	"mintgate/internal/verifier"
	"mintgate/pkg/domain"
)

const auditBuffer = 256

// main wires the dependency graph and runs the server. Business logic lives in
// the module services; everything here is construction and lifecycle.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := domain.ParseAddress(cfg.RegistryAddress)
	if err != nil {
		return err
	}
	template, err := domain.ParseAddress(cfg.AccountTemplate)
	if err != nil {
		return err
	}
	owner, err := domain.ParseAddress(cfg.OwnerAddress)
	if err != nil {
		return fmt.Errorf("MINTGATE_OWNER: %w", err)
	}
	var issuerKey domain.Address
	if cfg.IssuerAddress != "" {
		issuerKey, err = domain.ParseAddress(cfg.IssuerAddress)
		if err != nil {
			return err
		}
	}

	// Backing stores. Postgres when a DSN is set, Redis when a URL is set,
	// in-memory otherwise; mixes are allowed.
	var (
		db          *sql.DB
		ledgerStore ledger.Store
		assetStore  issuance.Store
		allowStore  allowlist.Store
		storeTx     issuance.StoreTx
	)
	if cfg.Postgres.DSN != "" {
		db, err = sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		ledgerStore = ledger.NewPostgresStore(db)
		assetStore = issuance.NewPostgresStore(db)
		storeTx = issuance.SQLTx{DB: db}
	} else {
		ledgerStore = ledger.NewMemoryStore()
		assetStore = issuance.NewMemoryStore()
		storeTx = issuance.MemoryTx{}
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		allowStore = allowlist.NewRedisStore(redisClient.Client)
		if db == nil {
			// Redis-backed consumption only without SQL: the ledger must share
			// the transaction boundary with the asset store when one exists.
			ledgerStore = ledger.NewRedisStore(redisClient.Client)
		}
	} else {
		allowStore = allowlist.NewMemoryStore()
	}

	accessSvc := access.New(owner, access.Config{
		IssuerKey:       issuerKey,
		GroupID:         cfg.GroupID,
		VerifierRef:     cfg.VerifierURL,
		FactoryRef:      cfg.FactoryURL,
		AccountTemplate: template,
		BaseMetadataURI: cfg.BaseMetadataURI,
		EpochPrefix:     cfg.EpochPrefix,
	}, allowStore, func(ref string) verifier.Verifier {
		if ref == "" {
			return nil
		}
		return verifier.NewHTTPVerifier(ref, cfg.CollaboratorTimeout)
	})

	var factory accounts.Factory
	if cfg.FactoryURL != "" {
		factory = accounts.NewHTTPFactory(cfg.FactoryURL, cfg.CollaboratorTimeout)
	} else {
		log.Warn("no factory configured, deriving sub-accounts locally")
		factory = accounts.NewMockFactory()
	}

	var policy issuance.MetadataPolicy = issuance.PointerPolicy{}
	if cfg.EmbeddedMetadata {
		policy = issuance.EmbeddedPolicy{}
	}

	auditInbox := make(chan audit.Event, auditBuffer)
	auditWorker := audit.NewWorker(audit.NewMemoryStore(), auditInbox)
	publisher := audit.NewPublisher(auditInbox, log)

	m := metrics.New()
	typedDomain := eip712.Domain{
		Name:              cfg.SystemName,
		Version:           cfg.SystemVersion,
		ChainID:           cfg.ChainID,
		VerifyingContract: registry,
	}

	svc := issuance.NewService(issuance.Params{
		VoucherGate: gate.NewVoucherGate(typedDomain, accessSvc),
		ProofGate:   gate.NewProofGate(accessSvc),
		AllowGate:   gate.NewAllowListGate(allowStore),
		Ledger:      ledgerStore,
		Assets:      assetStore,
		StoreTx:     storeTx,
		Factory:     factory,
		Access:      accessSvc,
		Policy:      policy,
		Deployment:  issuance.Deployment{ChainID: cfg.ChainID, Registry: registry},
		Logger:      log,
		Metrics:     m,
		Audit:       publisher,
	})

	router := httptransport.NewRouter(httptransport.Deps{
		Issuance:  issuancehandler.New(svc, log),
		Access:    accesshandler.New(accessSvc, log, publisher),
		Validator: middleware.NewHMACValidator(cfg.JWTSigningKey),
		Logger:    log,
		Health: func(r *http.Request) error {
			if db != nil {
				if err := db.PingContext(r.Context()); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(r.Context())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gCtx)
	})
	g.Go(func() error {
		log.Info("starting mintgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("mintgate stopped")
	return nil
}
