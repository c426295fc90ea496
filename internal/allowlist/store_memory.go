package allowlist

import (
	"context"
	"sort"
	"sync"

	"mintgate/pkg/domain"
)

// MemoryStore keeps the allow-list in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	members map[domain.Address]struct{}
	enabled bool
}

// NewMemoryStore returns an empty allow-list with the flag enabled, matching
// the default policy: nobody mints directly until listed.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members: make(map[domain.Address]struct{}),
		enabled: true,
	}
}

func (s *MemoryStore) Add(_ context.Context, addr domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[addr] = struct{}{}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, addr domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, addr)
	return nil
}

func (s *MemoryStore) Contains(_ context.Context, addr domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[addr]
	return ok, nil
}

func (s *MemoryStore) SetEnabled(_ context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	return nil
}

func (s *MemoryStore) Enabled(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled, nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Address, 0, len(s.members))
	for addr := range s.members {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
