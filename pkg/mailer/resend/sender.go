// Package resend implements mailer.Sender using the Resend API.
package resend

import (
	"context"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/dripsend/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	req := &resend.SendEmailRequest{
		From:    email.From,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps a Resend API failure onto mailer.SendError. The SDK does
// not expose a typed status, so classification is best-effort from the
// error codes embedded in the message.
func classify(err error) *mailer.SendError {
	se := &mailer.SendError{Err: err}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "rate_limit_exceeded"), strings.Contains(msg, "429"):
		se.StatusCode = 429
		se.Code = "TooManyRequests"
	case strings.Contains(msg, "internal_server_error"), strings.Contains(msg, "application_error"):
		se.StatusCode = 500
	}
	return se
}
