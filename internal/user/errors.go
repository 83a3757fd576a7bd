package user

import "errors"

var (
	ErrNotFound       = errors.New("user: not found")
	ErrDuplicateEmail = errors.New("user: email already registered")
	ErrInvalidInput   = errors.New("user: invalid input")
)
