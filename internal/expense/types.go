package expense

import (
	"errors"
	"time"
)

// Expense is a single spending record owned by one user. Amounts are plain
// decimal numbers as submitted by the client.
type Expense struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrNotFound     = errors.New("expense: not found")
	ErrInvalidInput = errors.New("expense: invalid input")
)
