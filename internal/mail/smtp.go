package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	"expensa.org/internal/config"
)

const dialTimeout = 10 * time.Second

var _ Sender = (*SMTPSender)(nil)

// SMTPSender sends mail through a single configured SMTP relay. Port 465
// uses implicit TLS, anything else negotiates STARTTLS.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender builds a sender from service configuration.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

// Send delivers one message. The SMTP conversation itself is not
// cancellable mid-flight; the context is honored up to the dial.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	msg := formatMessage(s.from, to, subject, body, time.Now().UTC())
	addr := net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))

	if s.port == 465 {
		return s.sendTLS(addr, to, msg)
	}
	return s.sendStartTLS(addr, to, msg)
}

// sendStartTLS sends over a plain connection upgraded with STARTTLS
// (port 587 typical).
func (s *SMTPSender) sendStartTLS(addr, to, msg string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("starting TLS: %w", err)
	}

	if err := s.auth(client); err != nil {
		return err
	}
	return s.sendMessage(client, to, msg)
}

// sendTLS sends over an implicit TLS connection (port 465).
func (s *SMTPSender) sendTLS(addr, to, msg string) error {
	tlsConfig := &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: dialTimeout}, "tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("connecting to %s (TLS): %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	if err := s.auth(client); err != nil {
		return err
	}
	return s.sendMessage(client, to, msg)
}

func (s *SMTPSender) auth(client *smtp.Client) error {
	if s.username == "" {
		return nil
	}
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	return nil
}

func (s *SMTPSender) sendMessage(client *smtp.Client, to, msg string) error {
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO %s: %w", to, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing data: %w", err)
	}
	return client.Quit()
}

// formatMessage builds an RFC 2822 plain-text message.
func formatMessage(from, to, subject, body string, date time.Time) string {
	fromAddr := netmail.Address{Address: from}
	toAddr := netmail.Address{Address: to}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", fromAddr.String()))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", toAddr.String()))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", date.Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.String()
}
