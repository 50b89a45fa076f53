package providers

import "context"

// Mailer sends HTML email
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error

	// Enabled reports whether messages actually leave the process
	Enabled() bool
}
