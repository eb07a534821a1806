package mailer

// Email is a fully-prepared message ready for delivery. Drip dispatch is
// strictly per-recipient, so an Email always has exactly one addressee.
type Email struct {
	Headers map[string]string // Custom headers (deliverability, unsubscribe)
	From    string            // Sender address
	To      string            // Recipient address
	Subject string            // Email subject
	HTML    string            // HTML body
	Text    string            // Plain text alternative
	ReplyTo string            // Optional reply-to address
}

// Validate checks that the message carries everything a provider needs.
func (e *Email) Validate() error {
	switch {
	case e.To == "":
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "":
		return ErrNoContent
	}
	return nil
}
