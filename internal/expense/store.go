package expense

import "context"

// Store persists expense records. Every operation is scoped to the owning
// user; a record belonging to someone else behaves as if it did not exist.
type Store interface {
	Create(ctx context.Context, e *Expense) error
	ListByUser(ctx context.Context, userID string) ([]Expense, error)
	Delete(ctx context.Context, userID, id string) error
}
