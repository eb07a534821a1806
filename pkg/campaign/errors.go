package campaign

import "errors"

var (
	// ErrMissingName indicates the campaign name is empty.
	ErrMissingName = errors.New("campaign name is required")

	// ErrMissingSubject indicates the subject is empty.
	ErrMissingSubject = errors.New("subject is required")

	// ErrMissingBody indicates the body template is empty.
	ErrMissingBody = errors.New("text is required")

	// ErrNoRecipients indicates no valid recipients survived sanitization.
	ErrNoRecipients = errors.New("no valid recipients provided")

	// ErrJobNotFound indicates the job ID is unknown to the store.
	ErrJobNotFound = errors.New("campaign job not found")
)
