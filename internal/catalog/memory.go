package catalog

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory tag catalog, used in tests and when no
// database path is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	index map[string]struct{}
	order []string
}

// NewMemory returns an empty in-memory catalog seeded with the given tags.
func NewMemory(seed ...string) *MemoryStore {
	s := &MemoryStore{index: make(map[string]struct{})}
	for _, tag := range seed {
		_ = s.Add(context.Background(), tag)
	}
	return s
}

func (s *MemoryStore) Has(_ context.Context, tag string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[tag]
	return ok, nil
}

func (s *MemoryStore) Add(_ context.Context, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[tag]; ok {
		return nil
	}
	s.index[tag] = struct{}{}
	s.order = append(s.order, tag)
	return nil
}

func (s *MemoryStore) All(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
