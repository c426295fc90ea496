package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
)

func TestMemoryStoreTryConsume(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := domain.Keccak256([]byte("nonce-1"))

	used, err := store.IsUsed(ctx, key)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, store.TryConsume(ctx, key))

	err = store.TryConsume(ctx, key)
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

	used, err = store.IsUsed(ctx, key)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestMemoryStoreRelease(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := domain.Keccak256([]byte("nonce-2"))

	require.NoError(t, store.TryConsume(ctx, key))
	require.NoError(t, store.Release(ctx, key))

	// Released key is spendable again.
	assert.NoError(t, store.TryConsume(ctx, key))
}

func TestMemoryStoreRaceSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := domain.Keccak256([]byte("contested"))

	const racers = 32
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.TryConsume(ctx, key)
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, losses)
}
