package campaign

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dmitrymomot/dripsend/pkg/personalize"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithPersonalization forwards options to the personalization engine
// (custom sender-name table, seeded conditionals).
func WithPersonalization(opts ...personalize.Option) Option {
	return func(d *Dispatcher) { d.pOpts = opts }
}

// WithSleep replaces the pacing/throttle sleep. Tests use this to record
// delays instead of waiting them out.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Dispatcher) { d.sleep = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithRandInt overrides the uniform integer source used for sender
// rotation and pacing jitter. fn must return a value in [0, n).
func WithRandInt(fn func(n int) int) Option {
	return func(d *Dispatcher) { d.randInt = fn }
}

func defaultRandInt(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}
