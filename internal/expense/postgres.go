package expense

import (
	"context"
	"database/sql"

	"expensa.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, e *Expense) error {
	if e.UserID == "" || e.Title == "" {
		return ErrInvalidInput
	}
	if e.ID == "" {
		e.ID = ids.New()
	}
	if e.Date.IsZero() {
		row := s.db.QueryRowContext(ctx,
			`insert into expenses(id, user_id, title, amount, category)
			 values($1,$2,$3,$4,$5) returning date, created_at`,
			e.ID, e.UserID, e.Title, e.Amount, e.Category)
		return row.Scan(&e.Date, &e.CreatedAt)
	}
	row := s.db.QueryRowContext(ctx,
		`insert into expenses(id, user_id, title, amount, category, date)
		 values($1,$2,$3,$4,$5,$6) returning date, created_at`,
		e.ID, e.UserID, e.Title, e.Amount, e.Category, e.Date)
	return row.Scan(&e.Date, &e.CreatedAt)
}

func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, title, amount, category, date, created_at
		 from expenses where user_id=$1 order by date desc`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PGStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from expenses where id=$1 and user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
