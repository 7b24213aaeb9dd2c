package calendar

import (
	"context"
	"slices"
	"sync"

	domain "studio/internal/domain/calendar"
)

// MemoryStore implements Store with a mutex-guarded slice.
// Contents live for the process lifetime.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.Item
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds item to the end of the log. No dedup, no validation.
// POST: len(List) grows by one and the last element equals item
func (s *MemoryStore) Append(_ context.Context, item domain.Item) error {
	item.AssignedTo = slices.Clone(item.AssignedTo)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

// List returns a snapshot of every item in append order.
func (s *MemoryStore) List(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items), nil
}

// ListOverlapping returns items intersecting [from, to] plus every recurring item.
func (s *MemoryStore) ListOverlapping(_ context.Context, from, to string) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Item
	for _, it := range s.items {
		if it.IsRecurring() || it.Overlaps(from, to) {
			out = append(out, it)
		}
	}
	return out, nil
}
