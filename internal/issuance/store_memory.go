package issuance

import (
	"context"
	"fmt"
	"sync"

	"mintgate/internal/issuance/models"
	"mintgate/pkg/platform/sentinel"
)

// MemoryStore keeps asset records and the id counter in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	next   uint64
	assets map[uint64]models.AssetRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assets: make(map[uint64]models.AssetRecord)}
}

func (s *MemoryStore) NextID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id, nil
}

func (s *MemoryStore) ReleaseID(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next != id+1 {
		return fmt.Errorf("release id %d: counter at %d: %w", id, s.next, sentinel.ErrInvalidState)
	}
	s.next = id
	return nil
}

func (s *MemoryStore) Save(_ context.Context, record *models.AssetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assets[record.ID]; exists {
		return sentinel.ErrConflict
	}
	s.assets[record.ID] = *record
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets, id)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uint64) (*models.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.assets[id]; ok {
		return &record, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.assets)), nil
}
