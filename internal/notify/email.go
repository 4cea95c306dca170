// Package notify delivers customer emails about bookings through SendGrid
// or Amazon SES.
package notify

import (
	"context"

	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// EmailSender delivers one email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a provider-neutral email.
type EmailMessage struct {
	To          string
	ToName      string
	ReplyTo     string
	ReplyToName string
	Subject     string
	Body        string // plain text
	HTML        string
	// Category groups messages in the provider's reporting.
	Category string
	// Tags travel with the message as SendGrid custom args or SES message tags.
	Tags map[string]string
}

// StubEmailSender logs instead of sending. Used when no provider is configured.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a logging-only sender.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the message.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("email not sent, no provider configured",
		"to", msg.To, "reply_to", msg.ReplyTo, "subject", msg.Subject, "category", msg.Category)
	return nil
}
