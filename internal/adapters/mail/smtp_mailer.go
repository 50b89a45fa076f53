package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gomail/gomail"
	"github.com/rs/zerolog/log"

	"github.com/carelink/backend/internal/domain/providers"
	"github.com/carelink/backend/pkg/config"
	"github.com/carelink/backend/pkg/retry"
)

// dialSender is satisfied by *gomail.Dialer
type dialSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through an SMTP relay with gomail
type SMTPMailer struct {
	from   string
	dialer dialSender
	retry  retry.Config
}

var _ providers.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer from config
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		retry:  retry.QuickConfig(),
	}
}

// Enabled reports true; messages go to the relay
func (m *SMTPMailer) Enabled() bool { return true }

// Send delivers one HTML message, retrying transient failures
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	err := retry.DoWithLog(ctx, m.retry, "smtp", func() error {
		return m.dialer.DialAndSend(msg)
	}, func(attempt int, err error, next time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", next).Msg("email send failed")
	})
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. It is used
// when MAIL_ENABLED is false.
type LogMailer struct{}

var _ providers.Mailer = LogMailer{}

// Enabled reports false; nothing leaves the process
func (LogMailer) Enabled() bool { return false }

// Send logs the message envelope
func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("mail disabled, skipping send")
	return nil
}
