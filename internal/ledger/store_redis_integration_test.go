//go:build integration

package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
	"mintgate/pkg/testutil/containers"
)

func TestRedisStoreIntegration(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	store := NewRedisStore(rc.Client)
	key := domain.Keccak256([]byte("nullifier-1"))

	t.Run("consume once", func(t *testing.T) {
		require.NoError(t, store.TryConsume(ctx, key))

		used, err := store.IsUsed(ctx, key)
		require.NoError(t, err)
		assert.True(t, used)
	})

	t.Run("replay rejected", func(t *testing.T) {
		err := store.TryConsume(ctx, key)
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	})

	t.Run("release restores spendability", func(t *testing.T) {
		require.NoError(t, store.Release(ctx, key))
		assert.NoError(t, store.TryConsume(ctx, key))
	})

	t.Run("concurrent consumers single winner", func(t *testing.T) {
		contested := domain.Keccak256([]byte("contested"))
		results := make(chan error, 16)
		for i := 0; i < 16; i++ {
			go func() { results <- store.TryConsume(ctx, contested) }()
		}
		var wins int
		for i := 0; i < 16; i++ {
			if err := <-results; err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
			}
		}
		assert.Equal(t, 1, wins)
	})
}
