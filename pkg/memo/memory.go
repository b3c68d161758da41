package memo

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	memos map[string]Memo
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{memos: make(map[string]Memo)}
}

func (s *MemoryStore) Put(_ context.Context, m Memo) error {
	s.mu.Lock()
	s.memos[m.ID] = m
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.memos[id]
	if !ok {
		return Memo{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Memo, error) {
	s.mu.RLock()
	out := make([]Memo, 0, len(s.memos))
	for _, m := range s.memos {
		out = append(out, m)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, byDate)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.memos, id)
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored memos.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memos)
}
