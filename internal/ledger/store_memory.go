package ledger

import (
	"context"
	"sync"

	"mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
)

// MemoryStore keeps consumed keys in a mutex-guarded set. It favors clarity
// over performance and is the default for single-instance deployments.
type MemoryStore struct {
	mu   sync.Mutex
	used map[domain.Hash]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{used: make(map[domain.Hash]struct{})}
}

func (s *MemoryStore) TryConsume(_ context.Context, key domain.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.used[key]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.used[key] = struct{}{}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key domain.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, key)
	return nil
}

func (s *MemoryStore) IsUsed(_ context.Context, key domain.Hash) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.used[key]
	return ok, nil
}
