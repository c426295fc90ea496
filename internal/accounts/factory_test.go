package accounts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/pkg/domain"
)

var (
	template = mustAddr("0x00000000000000000000000000000000000000cc")
	registry = mustAddr("0x00000000000000000000000000000000000000aa")
)

func mustAddr(s string) domain.Address {
	a, err := domain.ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func TestDeriveDeterministic(t *testing.T) {
	a1 := Derive(template, 1, registry, 0, 0)
	a2 := Derive(template, 1, registry, 0, 0)
	assert.Equal(t, a1, a2)

	// Every input participates in the derivation.
	assert.NotEqual(t, a1, Derive(template, 2, registry, 0, 0))
	assert.NotEqual(t, a1, Derive(template, 1, registry, 1, 0))
	assert.NotEqual(t, a1, Derive(template, 1, registry, 0, 1))
	assert.NotEqual(t, a1, Derive(registry, 1, registry, 0, 0))
}

func TestHTTPFactoryCreateAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/accounts", r.URL.Path)

		var req createAccountRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		addr := Derive(mustAddr(req.Template), req.ChainID, mustAddr(req.Registry), req.AssetID, req.Salt)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createAccountResponse{Address: addr.String()})
	}))
	defer srv.Close()

	f := NewHTTPFactory(srv.URL, time.Second)
	addr, err := f.CreateAccount(context.Background(), template, 1, registry, 7, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, Derive(template, 1, registry, 7, 0), addr)
}

func TestHTTPFactoryRejectsMismatchedAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(createAccountResponse{
			Address: "0x00000000000000000000000000000000000000ff",
		})
	}))
	defer srv.Close()

	f := NewHTTPFactory(srv.URL, time.Second)
	_, err := f.CreateAccount(context.Background(), template, 1, registry, 7, 0, nil)
	assert.Error(t, err)
}

func TestHTTPFactorySurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(createAccountResponse{Error: "out of gas"})
	}))
	defer srv.Close()

	f := NewHTTPFactory(srv.URL, time.Second)
	_, err := f.CreateAccount(context.Background(), template, 1, registry, 7, 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of gas")
}
