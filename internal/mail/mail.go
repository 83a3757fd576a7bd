// Package mail delivers outbound email. The rest of the service consumes
// only the Sender capability; SMTP is an implementation detail.
package mail

import "context"

// Sender delivers a single message out-of-band. A returned error means the
// message was not accepted for delivery; callers decide whether to surface
// or retry.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
