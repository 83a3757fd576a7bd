package expense

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryCreateListDelete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	older := Expense{UserID: "u-1", Title: "Groceries", Amount: 42.50, Category: "Food",
		Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
	newer := Expense{UserID: "u-1", Title: "Train", Amount: 12, Category: "Transport",
		Date: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)}
	other := Expense{UserID: "u-2", Title: "Rent", Amount: 900, Category: "Housing",
		Date: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)}

	for _, e := range []*Expense{&older, &newer, &other} {
		if err := store.Create(ctx, e); err != nil {
			t.Fatalf("Create(%s): %v", e.Title, err)
		}
		if e.ID == "" {
			t.Fatalf("expected generated id for %s", e.Title)
		}
	}

	list, err := store.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(list))
	}
	if list[0].Title != "Train" || list[1].Title != "Groceries" {
		t.Fatalf("expected newest first, got %s then %s", list[0].Title, list[1].Title)
	}

	if err := store.Delete(ctx, "u-1", newer.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = store.ListByUser(ctx, "u-1")
	if len(list) != 1 {
		t.Fatalf("expected 1 expense after delete, got %d", len(list))
	}
}

func TestInMemoryDeleteScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	e := Expense{UserID: "u-1", Title: "Groceries", Amount: 10, Category: "Food"}
	if err := store.Create(ctx, &e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Delete(ctx, "u-2", e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := store.Delete(ctx, "u-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if err := store.Delete(ctx, "u-1", e.ID); err != nil {
		t.Fatalf("owner delete should succeed: %v", err)
	}
}

func TestInMemoryCreateDefaultsDate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	e := Expense{UserID: "u-1", Title: "Coffee", Amount: 3.5, Category: "Food"}
	if err := store.Create(ctx, &e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Date.IsZero() {
		t.Fatal("expected date to default to now")
	}

	if err := store.Create(ctx, &Expense{Title: "orphan"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without user, got %v", err)
	}
}
