package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mintgate/internal/access"
	accesshandler "mintgate/internal/access/handler"
	"mintgate/internal/accounts"
	"mintgate/internal/allowlist"
	"mintgate/internal/chain/eip712"
	"mintgate/internal/gate"
	"mintgate/internal/issuance"
	issuancehandler "mintgate/internal/issuance/handler"
	"mintgate/internal/ledger"
	"mintgate/internal/platform/middleware"
	"mintgate/internal/verifier"
	"mintgate/pkg/domain"
	"mintgate/pkg/testutil"
)

const (
	signingKey = "router-test-key"
	ownerHex   = "0x1111111111111111111111111111111111111111"
	callerHex  = "0x2222222222222222222222222222222222222222"
)

func newApp(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	owner, err := domain.ParseAddress(ownerHex)
	if err != nil {
		t.Fatalf("parse owner: %v", err)
	}
	registry, _ := domain.ParseAddress("0x00000000000000000000000000000000000000aa")

	allow := allowlist.NewMemoryStore()
	accessSvc := access.New(owner, access.Config{
		GroupID:         1,
		VerifierRef:     "mock",
		BaseMetadataURI: "ipfs://",
		EpochPrefix:     "MINTGATE",
	}, allow, func(string) verifier.Verifier { return &verifier.MockVerifier{} })

	svc := issuance.NewService(issuance.Params{
		VoucherGate: gate.NewVoucherGate(eip712.Domain{Name: "mintgate", Version: "1", ChainID: 1, VerifyingContract: registry}, accessSvc),
		ProofGate:   gate.NewProofGate(accessSvc),
		AllowGate:   gate.NewAllowListGate(allow),
		Ledger:      ledger.NewMemoryStore(),
		Assets:      issuance.NewMemoryStore(),
		StoreTx:     issuance.MemoryTx{},
		Factory:     accounts.NewMockFactory(),
		Access:      accessSvc,
		Policy:      issuance.PointerPolicy{},
		Deployment:  issuance.Deployment{ChainID: 1, Registry: registry},
		Logger:      logger,
	})

	return NewRouter(Deps{
		Issuance:  issuancehandler.New(svc, logger),
		Access:    accesshandler.New(accessSvc, logger, nil),
		Validator: middleware.NewHMACValidator(signingKey),
		Logger:    logger,
	})
}

func bearerToken(t *testing.T, addr string) string {
	t.Helper()
	claims := middleware.CallerClaims{
		Address: addr,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	app := newApp(t)

	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, rec.Code)
		}
	}
}

func TestProofMintRequiresToken(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/mint/proof", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestVoucherMintIsOpen(t *testing.T) {
	app := newApp(t)

	// No token; a malformed body must reach the handler and fail validation,
	// not authentication.
	req := httptest.NewRequest(http.MethodPost, "/mint/voucher", bytes.NewReader([]byte(`{"recipient":"bad"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 from validation, got %d", rec.Code)
	}
}

func TestDirectMintThroughFullStack(t *testing.T) {
	testutil.Given(t, "an allow-listed caller", func(t *testing.T) {
		app := newApp(t)

		// Owner puts the caller on the allow-list over the admin surface.
		body, _ := json.Marshal(map[string]string{"address": callerHex})
		req := httptest.NewRequest(http.MethodPost, "/admin/allowlist", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearerToken(t, ownerHex))
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204 adding to allow-list, got %d: %s", rec.Code, rec.Body.String())
		}

		testutil.When(t, "the caller mints directly", func(t *testing.T) {
			mintBody, _ := json.Marshal(map[string]any{
				"attributes": map[string]any{"selection_id": 1, "message": "hi"},
				"content_id": "bafy",
			})
			req := httptest.NewRequest(http.MethodPost, "/mint/direct", bytes.NewReader(mintBody))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearerToken(t, callerHex))
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201 minting, got %d: %s", rec.Code, rec.Body.String())
			}

			var asset struct {
				ID          uint64 `json:"id"`
				Owner       string `json:"owner"`
				MetadataRef string `json:"metadata_ref"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&asset); err != nil {
				t.Fatalf("decode mint response: %v", err)
			}
			if asset.Owner != callerHex || asset.MetadataRef != "ipfs://bafy" {
				t.Fatalf("unexpected asset %+v", asset)
			}

			testutil.Then(t, "the asset is publicly readable", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/assets/0", nil)
				rec := httptest.NewRecorder()
				app.ServeHTTP(rec, req)
				if rec.Code != http.StatusOK {
					t.Fatalf("expected 200 reading asset, got %d", rec.Code)
				}
			})
		})
	})
}

func TestUnknownCallerCannotAdministrate(t *testing.T) {
	app := newApp(t)

	body, _ := json.Marshal(map[string]string{"address": callerHex})
	req := httptest.NewRequest(http.MethodPut, "/admin/issuer-key", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, callerHex))
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}
