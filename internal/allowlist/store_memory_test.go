package allowlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/pkg/domain"
)

func addr(t *testing.T, s string) domain.Address {
	t.Helper()
	a, err := domain.ParseAddress(s)
	require.NoError(t, err)
	return a
}

func TestMemoryStoreMembership(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	alice := addr(t, "0x1111111111111111111111111111111111111111")
	bob := addr(t, "0x2222222222222222222222222222222222222222")

	require.NoError(t, store.Add(ctx, alice))

	ok, err := Allows(ctx, store, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Allows(ctx, store, bob)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Remove(ctx, alice))
	ok, err = Allows(ctx, store, alice)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDisabledListAdmitsEveryone(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	bob := addr(t, "0x2222222222222222222222222222222222222222")

	ok, err := Allows(ctx, store, bob)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.SetEnabled(ctx, false))
	ok, err = Allows(ctx, store, bob)
	require.NoError(t, err)
	assert.True(t, ok)

	// Re-enabling restores the prior rejection.
	require.NoError(t, store.SetEnabled(ctx, true))
	ok, err = Allows(ctx, store, bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListIsSorted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	b := addr(t, "0x2222222222222222222222222222222222222222")
	a := addr(t, "0x1111111111111111111111111111111111111111")
	require.NoError(t, store.Add(ctx, b))
	require.NoError(t, store.Add(ctx, a))

	got, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{a, b}, got)
}
