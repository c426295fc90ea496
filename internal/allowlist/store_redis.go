package allowlist

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mintgate/pkg/domain"
)

const (
	membersKey = "allowlist:members"
	enabledKey = "allowlist:enabled"
)

// RedisStore shares the allow-list across instances via a Redis set.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Add(ctx context.Context, addr domain.Address) error {
	if err := s.client.SAdd(ctx, membersKey, addr.String()).Err(); err != nil {
		return fmt.Errorf("allowlist sadd: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, addr domain.Address) error {
	if err := s.client.SRem(ctx, membersKey, addr.String()).Err(); err != nil {
		return fmt.Errorf("allowlist srem: %w", err)
	}
	return nil
}

func (s *RedisStore) Contains(ctx context.Context, addr domain.Address) (bool, error) {
	ok, err := s.client.SIsMember(ctx, membersKey, addr.String()).Result()
	if err != nil {
		return false, fmt.Errorf("allowlist sismember: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) SetEnabled(ctx context.Context, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	if err := s.client.Set(ctx, enabledKey, val, 0).Err(); err != nil {
		return fmt.Errorf("allowlist set enabled: %w", err)
	}
	return nil
}

// Enabled defaults to true when the flag has never been written.
func (s *RedisStore) Enabled(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, enabledKey).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("allowlist get enabled: %w", err)
	}
	return val == "1", nil
}

func (s *RedisStore) List(ctx context.Context) ([]domain.Address, error) {
	vals, err := s.client.SMembers(ctx, membersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("allowlist smembers: %w", err)
	}
	out := make([]domain.Address, 0, len(vals))
	for _, v := range vals {
		addr, err := domain.ParseAddress(v)
		if err != nil {
			continue
		}
		out = append(out, addr)
	}
	return out, nil
}
