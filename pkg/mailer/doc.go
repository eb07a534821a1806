// Package mailer provides the email delivery boundary for campaign
// dispatch: a provider-agnostic Sender interface, a deliverability-oriented
// HTML renderer, and a retry decorator for transient provider failures.
//
// # Architecture
//
// The package consists of three main components:
//
//   - Sender: Interface that email providers implement
//   - Renderer: Converts personalized plain text to a minimal HTML document
//   - RetrySender: Sender decorator with bounded exponential backoff
//
// # Usage
//
// Basic usage with the built-in Resend provider:
//
//	sender := resend.New(resend.Config{APIKey: os.Getenv("RESEND_API_KEY")})
//	retrying := mailer.NewRetrySender(sender, 3, log)
//	renderer := mailer.NewRenderer("mail.example.com")
//
//	html, err := renderer.Render(personalizedText)
//	if err != nil {
//		return err
//	}
//	err = retrying.Send(ctx, &mailer.Email{
//		From:    "hello@mail.example.com",
//		To:      "user@example.com",
//		Subject: "Hi there",
//		HTML:    html,
//		Text:    personalizedText,
//	})
//
// # Transient failures
//
// Providers report classified failures via *SendError. Retryable returns
// true for the transient status codes 429, 500, 502, 503, and 504, and the
// provider codes "TooManyRequests" and "ServiceUnavailable". Everything
// else propagates immediately.
//
// # Custom providers
//
// Implement the Sender interface to add support for other email providers:
//
//	type MySender struct{}
//
//	func (s *MySender) Send(ctx context.Context, email *mailer.Email) error {
//		// Send email using your provider's API
//		return nil
//	}
package mailer
