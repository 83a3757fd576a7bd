package user

import "context"

// Store describes persistence operations required by the auth subsystem.
// Callers normalize emails to lower case before hitting the store.
type Store interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByResetToken matches on the token value only; expiry is the
	// caller's concern so clocks stay injectable.
	FindByResetToken(ctx context.Context, token string) (*User, error)

	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetPendingReset(ctx context.Context, userID string, reset PendingReset) error
	ClearPendingReset(ctx context.Context, userID string) error
}
