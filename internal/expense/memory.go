package expense

import (
	"context"
	"sort"
	"sync"
	"time"

	"expensa.org/internal/ids"
)

var _ Store = (*InMemory)(nil)

// InMemory implements Store with in-process concurrency safety. Used in
// tests and for running the API without a database.
type InMemory struct {
	mu   sync.RWMutex
	byID map[string]*Expense
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*Expense)}
}

func (s *InMemory) Create(ctx context.Context, e *Expense) error {
	if e.UserID == "" || e.Title == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = ids.New()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	if e.Date.IsZero() {
		e.Date = now
	}
	stored := *e
	s.byID[e.ID] = &stored
	return nil
}

func (s *InMemory) ListByUser(ctx context.Context, userID string) ([]Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Expense
	for _, e := range s.byID {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	// Newest first, matching the list endpoint contract.
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *InMemory) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}
