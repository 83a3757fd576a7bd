package user

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	u := &User{Name: "Alice", Email: "alice@x.com", PasswordHash: "hash"}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := store.FindByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != u.ID || got.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if err := store.Create(ctx, &User{Name: "Other", Email: "alice@x.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if _, err := store.FindByEmail(ctx, "bob@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryPendingResetLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	u := &User{Name: "Alice", Email: "alice@x.com", PasswordHash: "hash"}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	expires := time.Now().Add(time.Hour).UTC()
	if err := store.SetPendingReset(ctx, u.ID, PendingReset{Token: "tok-1", ExpiresAt: expires}); err != nil {
		t.Fatalf("SetPendingReset: %v", err)
	}

	got, err := store.FindByResetToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("FindByResetToken: %v", err)
	}
	if got.PendingReset == nil || !got.PendingReset.ExpiresAt.Equal(expires) {
		t.Fatalf("pending reset not stored: %+v", got.PendingReset)
	}

	// Reissue replaces the previous token.
	if err := store.SetPendingReset(ctx, u.ID, PendingReset{Token: "tok-2", ExpiresAt: expires}); err != nil {
		t.Fatalf("SetPendingReset reissue: %v", err)
	}
	if _, err := store.FindByResetToken(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old token should be gone, got %v", err)
	}

	if err := store.ClearPendingReset(ctx, u.ID); err != nil {
		t.Fatalf("ClearPendingReset: %v", err)
	}
	if _, err := store.FindByResetToken(ctx, "tok-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cleared token should be gone, got %v", err)
	}

	got, err = store.Find(ctx, u.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.PendingReset != nil {
		t.Fatal("pending reset should be nil after clear")
	}
}

func TestInMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	u := &User{Name: "Alice", Email: "alice@x.com", PasswordHash: "hash"}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, _ := store.Find(ctx, u.ID)
	got.Name = "Mallory"

	again, _ := store.Find(ctx, u.ID)
	if again.Name != "Alice" {
		t.Fatal("mutating a returned user must not affect the store")
	}
}

func TestInMemoryUpdatePassword(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	u := &User{Name: "Alice", Email: "alice@x.com", PasswordHash: "old"}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.UpdatePassword(ctx, u.ID, "new"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	got, _ := store.Find(ctx, u.ID)
	if got.PasswordHash != "new" {
		t.Fatalf("password hash not updated: %s", got.PasswordHash)
	}

	if err := store.UpdatePassword(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
