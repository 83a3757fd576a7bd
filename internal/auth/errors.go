package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the login path gives no enumeration signal.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken and ErrTokenExpired are distinct for observability;
	// the HTTP layer surfaces both as a generic 401.
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrResetTokenInvalid covers unknown and expired reset tokens alike.
	ErrResetTokenInvalid = errors.New("auth: invalid or expired reset token")

	ErrMailDispatch = errors.New("auth: reset email dispatch failed")
)
