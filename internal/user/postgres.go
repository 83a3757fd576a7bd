package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"expensa.org/internal/ids"
)

const uniqueViolation = "23505"

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, name, email, password_hash) values($1,$2,$3,$4)`,
		u.ID, u.Name, u.Email, u.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *PGStore) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, email, password_hash, reset_token, reset_expires_at, created_at, updated_at
		 from users where id=$1`, id)
	return scanUser(row)
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, email, password_hash, reset_token, reset_expires_at, created_at, updated_at
		 from users where email=$1`, email)
	return scanUser(row)
}

func (s *PGStore) FindByResetToken(ctx context.Context, token string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, email, password_hash, reset_token, reset_expires_at, created_at, updated_at
		 from users where reset_token=$1`, token)
	return scanUser(row)
}

func (s *PGStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.exec(ctx,
		`update users set password_hash=$2, updated_at=now() where id=$1`,
		userID, passwordHash)
}

func (s *PGStore) SetPendingReset(ctx context.Context, userID string, reset PendingReset) error {
	return s.exec(ctx,
		`update users set reset_token=$2, reset_expires_at=$3, updated_at=now() where id=$1`,
		userID, reset.Token, reset.ExpiresAt)
}

func (s *PGStore) ClearPendingReset(ctx context.Context, userID string) error {
	return s.exec(ctx,
		`update users set reset_token=null, reset_expires_at=null, updated_at=now() where id=$1`,
		userID)
}

func (s *PGStore) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u       User
		token   sql.NullString
		expires sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &token, &expires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if token.Valid && expires.Valid {
		u.PendingReset = &PendingReset{
			Token:     token.String,
			ExpiresAt: expires.Time.UTC(),
		}
	}
	return &u, nil
}
