package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
)

var tryConsumeDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "mintgate_ledger_try_consume_duration_ms",
	Help:    "Latency of credential consumption attempts in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// Redis key prefix for consumed credential keys.
const usedKeyPrefix = "ledger:used:"

// RedisStore is a Redis-backed consumption ledger. This is the recommended
// implementation for distributed deployments where multiple instances must
// agree on which keys are spent. SETNX gives the atomic check-then-mark.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) TryConsume(ctx context.Context, key domain.Hash) error {
	start := time.Now()
	defer func() {
		tryConsumeDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	// No TTL: consumption is permanent.
	ok, err := s.client.SetNX(ctx, usedKeyPrefix+key.String(), "1", 0).Result()
	if err != nil {
		return fmt.Errorf("ledger setnx: %w", err)
	}
	if !ok {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key domain.Hash) error {
	if err := s.client.Del(ctx, usedKeyPrefix+key.String()).Err(); err != nil {
		return fmt.Errorf("ledger del: %w", err)
	}
	return nil
}

func (s *RedisStore) IsUsed(ctx context.Context, key domain.Hash) (bool, error) {
	n, err := s.client.Exists(ctx, usedKeyPrefix+key.String()).Result()
	if err != nil {
		return false, fmt.Errorf("ledger exists: %w", err)
	}
	return n > 0, nil
}
