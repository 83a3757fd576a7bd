package user

import "time"

// PendingReset is the active password-reset window for a user. Token and
// expiry always travel together; a user without a pending reset carries a
// nil pointer rather than two empty fields.
type PendingReset struct {
	Token     string
	ExpiresAt time.Time
}

// User represents a registered account. PasswordHash is a bcrypt hash;
// the raw password is never stored.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PendingReset *PendingReset
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
