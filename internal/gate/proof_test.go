package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/internal/access"
	"mintgate/internal/allowlist"
	"mintgate/internal/epoch"
	"mintgate/internal/verifier"
	"mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

func proofAccess(v verifier.Verifier) *access.Service {
	return access.New(
		mustAddr("0x1111111111111111111111111111111111111111"),
		access.Config{GroupID: 9, EpochPrefix: "MINTGATE", VerifierRef: "mock"},
		allowlist.NewMemoryStore(),
		func(string) verifier.Verifier { return v },
	)
}

func TestProofGateAccepts(t *testing.T) {
	mock := &verifier.MockVerifier{}
	g := NewProofGate(proofAccess(mock))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	caller := mustAddr("0x2222222222222222222222222222222222222222")
	req := ProofRequest{
		Caller:        caller,
		SelectionID:   3,
		Root:          domain.Keccak256([]byte("root")),
		NullifierHash: domain.Keccak256([]byte("nullifier")),
	}

	key, err := g.Verify(fixedClock(context.Background(), now), req)
	require.NoError(t, err)
	assert.Equal(t, req.NullifierHash, key)

	// The proof was bound to (caller, selection) and to today's epoch tag.
	assert.Equal(t, Signal(caller, 3), mock.LastSignal)
	assert.Equal(t, epoch.TagHash("MINTGATE", now.Unix()), mock.LastEpochTag)
}

func TestProofGateRejectsOnVerifierError(t *testing.T) {
	mock := &verifier.MockVerifier{Err: errors.New("pairing check failed")}
	g := NewProofGate(proofAccess(mock))

	req := ProofRequest{
		Caller:        mustAddr("0x2222222222222222222222222222222222222222"),
		NullifierHash: domain.Keccak256([]byte("nullifier")),
	}

	_, err := g.Verify(context.Background(), req)
	assert.True(t, dErrors.Is(err, dErrors.CodeProofRejected))
}

func TestProofGateEpochTagChangesAtMidnight(t *testing.T) {
	mock := &verifier.MockVerifier{}
	g := NewProofGate(proofAccess(mock))

	req := ProofRequest{
		Caller:        mustAddr("0x2222222222222222222222222222222222222222"),
		NullifierHash: domain.Keccak256([]byte("nullifier")),
	}

	beforeMidnight := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	_, err := g.Verify(fixedClock(context.Background(), beforeMidnight), req)
	require.NoError(t, err)
	tagDay1 := mock.LastEpochTag

	afterMidnight := time.Date(2025, 6, 2, 0, 0, 1, 0, time.UTC)
	_, err = g.Verify(fixedClock(context.Background(), afterMidnight), req)
	require.NoError(t, err)

	assert.NotEqual(t, tagDay1, mock.LastEpochTag)
}

func TestProofGateRejectsMissingInputs(t *testing.T) {
	g := NewProofGate(proofAccess(&verifier.MockVerifier{}))

	_, err := g.Verify(context.Background(), ProofRequest{
		NullifierHash: domain.Keccak256([]byte("n")),
	})
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	_, err = g.Verify(context.Background(), ProofRequest{
		Caller: mustAddr("0x2222222222222222222222222222222222222222"),
	})
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestAllowListGate(t *testing.T) {
	ctx := context.Background()
	store := allowlist.NewMemoryStore()
	g := NewAllowListGate(store)
	caller := mustAddr("0x2222222222222222222222222222222222222222")

	err := g.Verify(ctx, caller)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotAllowListed))

	require.NoError(t, store.Add(ctx, caller))
	assert.NoError(t, g.Verify(ctx, caller))

	// Disabling the list admits a previously rejected caller, re-enabling
	// restores the rejection.
	other := mustAddr("0x3333333333333333333333333333333333333333")
	require.NoError(t, store.SetEnabled(ctx, false))
	assert.NoError(t, g.Verify(ctx, other))
	require.NoError(t, store.SetEnabled(ctx, true))
	err = g.Verify(ctx, other)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotAllowListed))
}
