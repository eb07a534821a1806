package campaign

import (
	"strings"
	"time"
)

// Recipient is a single campaign addressee.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Campaign describes one dispatch request.
type Campaign struct {
	Name       string      `json:"campaignName"`
	Subject    string      `json:"subject"`
	Body       string      `json:"text"`
	Recipients []Recipient `json:"recipients"`
}

// Status is a point-in-time snapshot of a campaign run. Counters increase
// monotonically while the run is active; Completed flips to true exactly
// once, when the recipient loop ends for any reason.
type Status struct {
	StartTime    time.Time `json:"startTime"`
	CampaignName string    `json:"campaignName"`
	Sent         int       `json:"sent"`
	Successful   int       `json:"successful"`
	Failed       int       `json:"failed"`
	Total        int       `json:"total"`
	IsRunning    bool      `json:"isRunning"`
	Completed    bool      `json:"completed"`
}

// DetailStatus is the outcome class of a single send.
type DetailStatus string

const (
	DetailSuccess DetailStatus = "success"
	DetailError   DetailStatus = "error"
)

// DetailRecord is one per-recipient outcome in the ledger.
type DetailRecord struct {
	Timestamp      time.Time    `json:"timestamp"`
	CampaignName   string       `json:"campaignName"`
	RecipientEmail string       `json:"recipientEmail"`
	SenderEmail    string       `json:"senderEmail"`
	Status         DetailStatus `json:"status"`
	Error          string       `json:"error,omitempty"`
}

// Receipt is returned synchronously when a campaign is accepted; the run
// itself proceeds in the background.
type Receipt struct {
	JobID         string `json:"jobId"`
	Recipients    int    `json:"recipients"`
	Senders       int    `json:"senders"`
	RatePerMinute int    `json:"ratePerMinute"`
	JitterPercent int    `json:"jitterPct"`
}

// SanitizeRecipients trims whitespace, drops entries without an email,
// defaults missing names to the email local-part, and dedupes by
// lower-cased email while preserving first-seen order.
func SanitizeRecipients(in []Recipient) []Recipient {
	seen := make(map[string]struct{}, len(in))
	out := make([]Recipient, 0, len(in))
	for _, r := range in {
		email := strings.TrimSpace(r.Email)
		if email == "" {
			continue
		}
		key := strings.ToLower(email)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		name := strings.TrimSpace(r.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		out = append(out, Recipient{Email: email, Name: name})
	}
	return out
}
