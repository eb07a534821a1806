package personalize

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/dmitrymomot/dripsend/pkg/spintax"
)

// seedPrefixLen is how much of the template participates in seed
// derivation, measured in UTF-16 code units to match the unit-level hash.
// Hashing a bounded prefix keeps seeds cheap for large bodies while still
// separating distinct templates.
const seedPrefixLen = 100

type config struct {
	names       Table
	spintaxOpts []spintax.Option
}

// Option configures personalization.
type Option func(*config)

// WithSenderNames replaces the default sender display-name table.
func WithSenderNames(t Table) Option {
	return func(c *config) { c.names = t }
}

// WithSeededConditionals makes conditional spintax directives deterministic
// as well. See spintax.WithSeededConditionals.
func WithSeededConditionals() Option {
	return func(c *config) {
		c.spintaxOpts = append(c.spintaxOpts, spintax.WithSeededConditionals())
	}
}

// Content expands spintax in template with a seed derived from the
// recipient and substitutes the literal placeholder tokens.
//
// The seed combines the recipient email, their position in the campaign,
// the email domain, and a hash of the template prefix, so every recipient
// gets a stable but distinct variant. Identical inputs yield identical
// output, except for conditional directives (see the spintax package).
//
// Recognized tokens (case-sensitive, all occurrences):
//
//	{{name}}        recipient name, falling back to the email local-part
//	{{email}}       recipient email
//	{{firstName}}   first space-delimited token of the resolved name
//	{{lastName}}    remaining tokens, "" when the name is a single token
//	{{senderName}}  display name for the sender's local-part
func Content(template, name, email string, index int, sender string, opts ...Option) string {
	if template == "" || email == "" {
		return template
	}

	cfg := config{names: defaultSenderNames}
	for _, opt := range opts {
		opt(&cfg)
	}

	sopts := append([]spintax.Option{spintax.WithSeed(deriveSeed(template, email, index))}, cfg.spintaxOpts...)
	out := spintax.Expand(template, sopts...)

	if name = strings.TrimSpace(name); name == "" {
		name = localPart(email)
	}
	first, last := splitName(name)

	out = strings.ReplaceAll(out, "{{name}}", name)
	out = strings.ReplaceAll(out, "{{email}}", email)
	out = strings.ReplaceAll(out, "{{firstName}}", first)
	out = strings.ReplaceAll(out, "{{lastName}}", last)
	out = strings.ReplaceAll(out, "{{senderName}}", cfg.names.Lookup(localPart(sender)))
	return out
}

func deriveSeed(template, email string, index int) int64 {
	units := utf16.Encode([]rune(template))
	if len(units) > seedPrefixLen {
		units = units[:seedPrefixLen]
	}
	domain := ""
	if _, d, ok := strings.Cut(email, "@"); ok {
		domain = d
	}
	composite := fmt.Sprintf("%s_%d_%s_%d", email, index, domain, spintax.HashUnits(units))
	return spintax.Hash(composite)
}

func localPart(addr string) string {
	local, _, _ := strings.Cut(addr, "@")
	return local
}

func splitName(name string) (first, last string) {
	parts := strings.Split(name, " ")
	return parts[0], strings.Join(parts[1:], " ")
}
