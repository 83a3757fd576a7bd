package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreCreateDefaultsDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	store := NewPGStore(db)
	now := time.Now().UTC()

	mock.ExpectQuery("insert into expenses").
		WithArgs(sqlmock.AnyArg(), "u-1", "Groceries", 42.5, "Food").
		WillReturnRows(sqlmock.NewRows([]string{"date", "created_at"}).AddRow(now, now))

	e := Expense{UserID: "u-1", Title: "Groceries", Amount: 42.5, Category: "Food"}
	if err := store.Create(context.Background(), &e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !e.Date.Equal(now) || !e.CreatedAt.Equal(now) {
		t.Fatalf("timestamps not populated: %+v", e)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	store := NewPGStore(db)
	now := time.Now().UTC()

	mock.ExpectQuery("select id, user_id, title, amount, category, date, created_at").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "amount", "category", "date", "created_at"}).
			AddRow("e-2", "u-1", "Train", 12.0, "Transport", now, now).
			AddRow("e-1", "u-1", "Groceries", 42.5, "Food", now.Add(-24*time.Hour), now))

	list, err := store.ListByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != "e-2" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestPGStoreDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	store := NewPGStore(db)

	mock.ExpectExec("delete from expenses").
		WithArgs("e-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Delete(context.Background(), "u-1", "e-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mock.ExpectExec("delete from expenses").
		WithArgs("e-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Delete(context.Background(), "u-2", "e-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
