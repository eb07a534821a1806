// Package config loads the service configuration from environment
// variables with caarlos0/env.
package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/dripsend/pkg/logger"
	"github.com/dmitrymomot/dripsend/pkg/mailer/resend"
)

// ErrInvalidConfig indicates the environment is missing or malformed.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full service configuration.
type Config struct {
	// Port the HTTP API listens on.
	Port int `env:"PORT" envDefault:"8080"`

	// EmailDomain is the sending domain; sender addresses are
	// local-part@EmailDomain and the unsubscribe address lives here too.
	EmailDomain string `env:"EMAIL_DOMAIN,required,notEmpty"`

	// SenderUsernames seeds the rotation pool. More can be added at
	// runtime through the API.
	SenderUsernames []string `env:"SENDER_USERNAMES" envDefault:"sales,support,marketing"`

	// SenderNamesFile optionally points to a YAML file overriding the
	// built-in username-to-display-name table.
	SenderNamesFile string `env:"SENDER_NAMES_FILE"`

	// RatePerMinute is the advertised send rate reported in receipts.
	RatePerMinute int `env:"RATE_PER_MINUTE" envDefault:"20"`

	// JitterPercent widens the rate-derived gap when PaceByRate is on.
	JitterPercent int `env:"JITTER_PCT" envDefault:"50"`

	// MaxRetries bounds resend attempts per message on transient errors.
	MaxRetries int `env:"MAX_RETRIES" envDefault:"3"`

	// MaxPerHour is the coarse hourly send cap per campaign.
	MaxPerHour int `env:"MAX_EMAILS_PER_HOUR" envDefault:"50"`

	// SendDelay is the fixed pause between consecutive sends.
	SendDelay time.Duration `env:"SEND_DELAY" envDefault:"2s"`

	// PaceByRate derives the inter-send gap from RatePerMinute and
	// JitterPercent instead of SendDelay.
	PaceByRate bool `env:"PACE_BY_RATE" envDefault:"false"`

	// SeededConditionals makes conditional spintax groups deterministic
	// per recipient instead of coin-flipped per expansion.
	SeededConditionals bool `env:"SEEDED_CONDITIONALS" envDefault:"false"`

	// RedisURL switches job state from process memory to Redis when set.
	RedisURL string `env:"REDIS_URL"`

	Resend resend.Config
	Sentry logger.SentryConfig
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}
