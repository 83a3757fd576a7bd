package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"expensa.org/internal/mail"
	"expensa.org/internal/user"
)

const (
	defaultResetTTL     = time.Hour
	defaultResetBaseURL = "http://localhost:3000"

	resetTokenBytes = 32 // 256 bits of entropy, hex-encoded on the wire
)

// Service implements registration, login, session verification and the
// forgot/reset-password handshake on top of the user store, the token
// service and an out-of-band mail capability.
type Service struct {
	store  user.Store
	tokens *TokenService
	mailer mail.Sender

	resetTTL     time.Duration
	resetBaseURL string
	now          func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithResetTTL overrides the reset-token validity window.
func WithResetTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// WithResetBaseURL sets the client origin embedded into reset links.
func WithResetBaseURL(base string) ServiceOption {
	return func(s *Service) {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base != "" {
			s.resetBaseURL = base
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService wires the auth service. The mailer may be nil when outbound
// mail is not configured; ForgotPassword then fails at dispatch.
func NewService(store user.Store, tokens *TokenService, mailer mail.Sender, opts ...ServiceOption) *Service {
	svc := &Service{
		store:        store,
		tokens:       tokens,
		mailer:       mailer,
		resetTTL:     defaultResetTTL,
		resetBaseURL: defaultResetBaseURL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register creates a new identity and immediately mints a session token.
// The raw password only lives long enough to be hashed.
func (s *Service) Register(ctx context.Context, name, email, password string) (*user.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, "", user.ErrInvalidInput
	}

	hash, err := user.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &user.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password collapse to the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := user.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate verifies a bearer token and resolves the identity it
// asserts. A token whose subject no longer exists is just invalid.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.store.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// ForgotPassword issues a reset token, persists it on the identity record
// and dispatches the reset link by mail. Reissuing replaces any pending
// token; only the latest one is honored. A failed dispatch is surfaced to
// the caller while the stored token stays valid for a retry.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return user.ErrNotFound
	}

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	reset := user.PendingReset{
		Token:     token,
		ExpiresAt: s.now().UTC().Add(s.resetTTL),
	}
	if err := s.store.SetPendingReset(ctx, u.ID, reset); err != nil {
		return err
	}

	if s.mailer == nil {
		return fmt.Errorf("%w: no mail transport configured", ErrMailDispatch)
	}
	link := s.resetBaseURL + "/reset-password/" + token
	body := fmt.Sprintf(
		"Password Reset Request\r\n\r\n"+
			"Open the link below to reset your password. The link is valid for %s.\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you didn't request this, please ignore this email.\r\n",
		formatWindow(s.resetTTL), link,
	)
	if err := s.mailer.Send(ctx, u.Email, "Password Reset Link", body); err != nil {
		return fmt.Errorf("%w: %s", ErrMailDispatch, err)
	}
	return nil
}

// ResetPassword resolves a reset token, replaces the password and consumes
// the token. Unknown and expired tokens fail identically.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return ErrResetTokenInvalid
	}

	u, err := s.store.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	if u.PendingReset == nil || !s.now().UTC().Before(u.PendingReset.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	hash, err := user.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	// Consume unconditionally so the token is single-use even on replay.
	return s.store.ClearPendingReset(ctx, u.ID)
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func formatWindow(d time.Duration) string {
	if d == time.Hour {
		return "1 hour"
	}
	return d.String()
}
