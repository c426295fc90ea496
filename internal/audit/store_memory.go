package audit

import (
	"context"
	"sync"

	"mintgate/pkg/domain"
)

// MemoryStore keeps the audit trail in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByCaller(_ context.Context, caller domain.Address) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.Caller == caller {
			out = append(out, e)
		}
	}
	return out, nil
}
