// Package accounts handles the sub-account factory collaborator: every issued
// asset gets a deterministic secondary account bound to it. The derivation
// formula is public, so off-system consumers recompute the address from the
// same inputs instead of reading it back from us; only the factory-creation
// event is durable evidence.
package accounts

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
)

// Factory registers a sub-account for a freshly issued asset.
type Factory interface {
	CreateAccount(ctx context.Context, template domain.Address, chainID uint64, registry domain.Address, assetID uint64, salt uint64, initData []byte) (domain.Address, error)
}

// Derive computes the sub-account address for the given inputs. It mirrors the
// factory's own formula, so the result never needs persisting:
//
//	inner = keccak(template ++ chainID ++ registry ++ assetID)
//	addr  = keccak(0xff ++ registry ++ salt ++ inner)[12:]
func Derive(template domain.Address, chainID uint64, registry domain.Address, assetID uint64, salt uint64) domain.Address {
	inner := domain.Keccak256(
		template.Bytes(),
		uint64Word(chainID),
		registry.Bytes(),
		uint64Word(assetID),
	)
	outer := domain.Keccak256(
		[]byte{0xff},
		registry.Bytes(),
		uint64Word(salt),
		inner[:],
	)
	addr, _ := domain.AddressFromBytes(outer[12:])
	return addr
}

func uint64Word(v uint64) []byte {
	var word [32]byte
	binary.BigEndian.PutUint64(word[24:], v)
	return word[:]
}

// HTTPFactory calls an external factory service. The service answers with the
// derived address; we cross-check it against Derive and treat a mismatch as a
// collaborator failure.
type HTTPFactory struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFactory(baseURL string, timeout time.Duration) *HTTPFactory {
	return &HTTPFactory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type createAccountRequest struct {
	Template string `json:"template"`
	ChainID  uint64 `json:"chain_id"`
	Registry string `json:"registry"`
	AssetID  uint64 `json:"asset_id"`
	Salt     uint64 `json:"salt"`
	InitData []byte `json:"init_data,omitempty"`
}

type createAccountResponse struct {
	Address string `json:"address"`
	Error   string `json:"error,omitempty"`
}

func (f *HTTPFactory) CreateAccount(ctx context.Context, template domain.Address, chainID uint64, registry domain.Address, assetID uint64, salt uint64, initData []byte) (domain.Address, error) {
	body, err := json.Marshal(createAccountRequest{
		Template: template.String(),
		ChainID:  chainID,
		Registry: registry.String(),
		AssetID:  assetID,
		Salt:     salt,
		InitData: initData,
	})
	if err != nil {
		return "", fmt.Errorf("marshal create account request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/accounts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build create account request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("factory call: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var out createAccountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode factory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("factory rejected creation (%d): %s: %w", resp.StatusCode, out.Error, sentinel.ErrUnavailable)
	}

	addr, err := domain.ParseAddress(out.Address)
	if err != nil {
		return "", fmt.Errorf("factory returned malformed address: %w", err)
	}
	if want := Derive(template, chainID, registry, assetID, salt); addr != want {
		return "", fmt.Errorf("factory address %s does not match derivation %s: %w", addr, want, sentinel.ErrInvalidState)
	}
	return addr, nil
}

// MockFactory derives locally with a configurable latency to mimic the real
// collaborator in tests and development.
type MockFactory struct {
	Latency time.Duration
	Err     error

	mu      sync.Mutex
	created []uint64
}

func NewMockFactory() *MockFactory {
	return &MockFactory{}
}

func (m *MockFactory) CreateAccount(_ context.Context, template domain.Address, chainID uint64, registry domain.Address, assetID uint64, salt uint64, _ []byte) (domain.Address, error) {
	time.Sleep(m.Latency)
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	m.created = append(m.created, assetID)
	m.mu.Unlock()
	return Derive(template, chainID, registry, assetID, salt), nil
}

// Created returns the asset ids the mock registered accounts for.
func (m *MockFactory) Created() []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint64{}, m.created...)
}
