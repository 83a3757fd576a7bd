// Package config collects every environment-driven setting into a single
// struct constructed once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultTokenTTL     = 24 * time.Hour
	defaultResetTTL     = time.Hour
	defaultResetBaseURL = "http://localhost:3000"
	defaultSMTPPort     = 587
)

// Config holds runtime settings for the Expensa API.
//
// The auth secret has no default on purpose: a process without one must not
// start, because every session token it signed would be forgeable.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string // empty disables the gRPC health listener
	DatabaseDSN string

	AuthSecret string
	TokenTTL   time.Duration
	ResetTTL   time.Duration

	// ResetBaseURL is the client origin the reset link points at; the raw
	// token is appended as /reset-password/<token>.
	ResetBaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

// Load builds Config from EXPENSA_* environment variables and validates the
// fields the process cannot run without.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:     envOr("EXPENSA_HTTP_ADDR", defaultHTTPAddr),
		GRPCAddr:     os.Getenv("EXPENSA_GRPC_ADDR"),
		DatabaseDSN:  os.Getenv("EXPENSA_PG_DSN"),
		AuthSecret:   strings.TrimSpace(os.Getenv("EXPENSA_AUTH_SECRET")),
		TokenTTL:     defaultTokenTTL,
		ResetTTL:     defaultResetTTL,
		ResetBaseURL: envOr("EXPENSA_RESET_BASE_URL", defaultResetBaseURL),
		SMTPHost:     os.Getenv("EXPENSA_SMTP_HOST"),
		SMTPPort:     defaultSMTPPort,
		SMTPUsername: os.Getenv("EXPENSA_SMTP_USER"),
		SMTPPassword: os.Getenv("EXPENSA_SMTP_PASS"),
		MailFrom:     os.Getenv("EXPENSA_MAIL_FROM"),
	}

	if cfg.AuthSecret == "" {
		return nil, errors.New("config: EXPENSA_AUTH_SECRET is required")
	}

	if raw := os.Getenv("EXPENSA_TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: invalid EXPENSA_TOKEN_TTL %q", raw)
		}
		cfg.TokenTTL = d
	}
	if raw := os.Getenv("EXPENSA_RESET_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: invalid EXPENSA_RESET_TTL %q", raw)
		}
		cfg.ResetTTL = d
	}
	if raw := os.Getenv("EXPENSA_SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("config: invalid EXPENSA_SMTP_PORT %q", raw)
		}
		cfg.SMTPPort = port
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUsername
	}
	cfg.ResetBaseURL = strings.TrimRight(cfg.ResetBaseURL, "/")

	return cfg, nil
}

// MailConfigured reports whether outbound SMTP delivery can be attempted.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != ""
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
