// Package verifier wraps the external membership-proof verifier. The gateway
// never inspects the proof itself; it forwards the public inputs and treats
// any verifier error as rejection.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
)

// Proof carries the eight field elements of a groth16 proof, hex-encoded.
type Proof [8]string

// Verifier checks a membership proof against the configured group.
type Verifier interface {
	Verify(ctx context.Context, root domain.Hash, groupID uint64, signal domain.Hash, nullifierHash domain.Hash, epochTag domain.Hash, proof Proof) error
}

// HTTPVerifier delegates to a verifier service over HTTP.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPVerifier(baseURL string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	Root          string   `json:"root"`
	GroupID       uint64   `json:"group_id"`
	Signal        string   `json:"signal"`
	NullifierHash string   `json:"nullifier_hash"`
	EpochTag      string   `json:"epoch_tag"`
	Proof         Proof    `json:"proof"`
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, root domain.Hash, groupID uint64, signal domain.Hash, nullifierHash domain.Hash, epochTag domain.Hash, proof Proof) error {
	body, err := json.Marshal(verifyRequest{
		Root:          root.String(),
		GroupID:       groupID,
		Signal:        signal.String(),
		NullifierHash: nullifierHash.String(),
		EpochTag:      epochTag.String(),
		Proof:         proof,
	})
	if err != nil {
		return fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("verifier call: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode verifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verifier unavailable (%d): %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
	if !out.Valid {
		if out.Reason == "" {
			out.Reason = "proof invalid"
		}
		return fmt.Errorf("proof rejected: %s", out.Reason)
	}
	return nil
}

// MockVerifier accepts or rejects deterministically for tests and development.
type MockVerifier struct {
	Latency time.Duration
	Err     error

	// LastEpochTag records the discriminator from the most recent call so
	// tests can assert the day binding.
	LastEpochTag domain.Hash
	LastSignal   domain.Hash
}

func (m *MockVerifier) Verify(_ context.Context, _ domain.Hash, _ uint64, signal domain.Hash, _ domain.Hash, epochTag domain.Hash, _ Proof) error {
	time.Sleep(m.Latency)
	m.LastEpochTag = epochTag
	m.LastSignal = signal
	return m.Err
}
