package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have a recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("email must have HTML content")

	// ErrRenderFailed indicates HTML rendering failed.
	ErrRenderFailed = errors.New("failed to render email body")

	// ErrRetriesExhausted indicates a transient failure persisted through
	// the allowed retry attempts.
	ErrRetriesExhausted = errors.New("retry attempts exhausted")
)

// SendError is a delivery failure annotated with the provider's HTTP
// status and error code so the retry policy can classify it.
type SendError struct {
	Err        error
	Code       string
	StatusCode int
}

func (e *SendError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("send failed (status %d): %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("send failed: %v", e.Err)
	case e.Code != "":
		return "send failed: " + e.Code
	default:
		return fmt.Sprintf("send failed (status %d)", e.StatusCode)
	}
}

func (e *SendError) Unwrap() error { return e.Err }

var retryableStatuses = map[int]struct{}{
	429: {},
	500: {},
	502: {},
	503: {},
	504: {},
}

var retryableCodes = map[string]struct{}{
	"TooManyRequests":    {},
	"ServiceUnavailable": {},
}

// Retryable reports whether err represents a transient provider-side
// failure that is safe to retry. Only failures carrying a *SendError with
// a known transient status or code qualify.
func Retryable(err error) bool {
	var se *SendError
	if !errors.As(err, &se) {
		return false
	}
	if _, ok := retryableStatuses[se.StatusCode]; ok {
		return true
	}
	_, ok := retryableCodes[se.Code]
	return ok
}
