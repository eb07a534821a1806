package mailer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dripsend/pkg/mailer"
)

// scriptedSender fails with the scripted errors in order, then succeeds.
type scriptedSender struct {
	failures []error
	calls    int
}

func (s *scriptedSender) Send(_ context.Context, _ *mailer.Email) error {
	defer func() { s.calls++ }()
	if s.calls < len(s.failures) {
		return s.failures[s.calls]
	}
	return nil
}

func testEmail() *mailer.Email {
	return &mailer.Email{
		From:    "sales@x.com",
		To:      "a@x.com",
		Subject: "Hi",
		HTML:    "<p>Hi</p>",
	}
}

func recordSleeps(slept *[]time.Duration) mailer.RetryOption {
	return mailer.WithSleep(func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	})
}

func TestRetrySender_TransientThenSuccess(t *testing.T) {
	t.Parallel()

	transient := &mailer.SendError{StatusCode: 503, Err: errors.New("unavailable")}
	next := &scriptedSender{failures: []error{transient, transient}}

	var slept []time.Duration
	s := mailer.NewRetrySender(next, 3, nil, recordSleeps(&slept))

	err := s.Send(context.Background(), testEmail())
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}

func TestRetrySender_NonRetryableImmediate(t *testing.T) {
	t.Parallel()

	badRequest := &mailer.SendError{StatusCode: 400, Err: errors.New("bad address")}
	next := &scriptedSender{failures: []error{badRequest}}

	var slept []time.Duration
	s := mailer.NewRetrySender(next, 3, nil, recordSleeps(&slept))

	err := s.Send(context.Background(), testEmail())
	require.Error(t, err)
	var se *mailer.SendError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 400, se.StatusCode)
	assert.Equal(t, 1, next.calls)
	assert.Empty(t, slept)
}

func TestRetrySender_Exhaustion(t *testing.T) {
	t.Parallel()

	transient := &mailer.SendError{Code: "TooManyRequests", Err: errors.New("slow down")}
	next := &scriptedSender{failures: []error{transient, transient, transient}}

	var slept []time.Duration
	s := mailer.NewRetrySender(next, 2, nil, recordSleeps(&slept))

	err := s.Send(context.Background(), testEmail())
	require.ErrorIs(t, err, mailer.ErrRetriesExhausted)
	assert.Equal(t, 3, next.calls) // initial attempt + 2 retries
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}

func TestRetrySender_ContextCanceledDuringBackoff(t *testing.T) {
	t.Parallel()

	transient := &mailer.SendError{StatusCode: 502, Err: errors.New("bad gateway")}
	next := &scriptedSender{failures: []error{transient, transient, transient, transient}}

	s := mailer.NewRetrySender(next, 3, nil, mailer.WithSleep(
		func(_ context.Context, _ time.Duration) error { return context.Canceled },
	))

	err := s.Send(context.Background(), testEmail())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, next.calls)
}

func TestRetrySender_RejectsIncompleteEmail(t *testing.T) {
	t.Parallel()

	next := &scriptedSender{}
	s := mailer.NewRetrySender(next, 3, nil)

	tests := []struct {
		name    string
		email   *mailer.Email
		wantErr error
	}{
		{"no recipient", &mailer.Email{Subject: "Hi", HTML: "<p>Hi</p>"}, mailer.ErrNoRecipient},
		{"no subject", &mailer.Email{To: "a@x.com", HTML: "<p>Hi</p>"}, mailer.ErrNoSubject},
		{"no content", &mailer.Email{To: "a@x.com", Subject: "Hi"}, mailer.ErrNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Send(context.Background(), tt.email)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, 0, next.calls)
}

func TestRetryable_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"status 429", &mailer.SendError{StatusCode: 429}, true},
		{"status 500", &mailer.SendError{StatusCode: 500}, true},
		{"status 502", &mailer.SendError{StatusCode: 502}, true},
		{"status 503", &mailer.SendError{StatusCode: 503}, true},
		{"status 504", &mailer.SendError{StatusCode: 504}, true},
		{"code TooManyRequests", &mailer.SendError{Code: "TooManyRequests"}, true},
		{"code ServiceUnavailable", &mailer.SendError{Code: "ServiceUnavailable"}, true},
		{"status 400", &mailer.SendError{StatusCode: 400}, false},
		{"status 401", &mailer.SendError{StatusCode: 401}, false},
		{"unknown code", &mailer.SendError{Code: "InvalidRecipient"}, false},
		{"plain error", errors.New("boom"), false},
		{"wrapped send error", errors.Join(errors.New("outer"), &mailer.SendError{StatusCode: 503}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mailer.Retryable(tt.err))
		})
	}
}
