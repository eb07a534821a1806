package mailer

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// retryBaseDelay is the first backoff step; each subsequent attempt doubles it.
const retryBaseDelay = time.Second

// RetrySender decorates a Sender with bounded exponential backoff for
// transient provider failures. Non-retryable failures and exhausted
// attempts propagate to the caller unchanged.
type RetrySender struct {
	next       Sender
	log        *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
	maxRetries int
}

// RetryOption configures a RetrySender.
type RetryOption func(*RetrySender)

// WithSleep replaces the backoff sleep. Tests use this to record delays
// instead of waiting them out.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) RetryOption {
	return func(s *RetrySender) { s.sleep = fn }
}

// NewRetrySender wraps next with up to maxRetries additional attempts.
func NewRetrySender(next Sender, maxRetries int, log *slog.Logger, opts ...RetryOption) *RetrySender {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &RetrySender{
		next:       next,
		log:        log,
		sleep:      sleepContext,
		maxRetries: maxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements Sender. Backoff grows 1s, 2s, 4s, ... between attempts
// and respects context cancellation.
func (s *RetrySender) Send(ctx context.Context, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	for attempt := 0; ; {
		err := s.next.Send(ctx, email)
		if err == nil {
			return nil
		}
		attempt++
		if attempt > s.maxRetries {
			return errors.Join(ErrRetriesExhausted, err)
		}
		if !Retryable(err) {
			return err
		}
		backoff := retryBaseDelay << (attempt - 1)
		s.log.WarnContext(ctx, "retrying send",
			slog.String("to", email.To),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()),
		)
		if serr := s.sleep(ctx, backoff); serr != nil {
			return errors.Join(err, serr)
		}
	}
}

// sleepContext blocks for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
