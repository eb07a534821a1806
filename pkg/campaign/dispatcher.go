package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dripsend/pkg/mailer"
	"github.com/dmitrymomot/dripsend/pkg/personalize"
	"github.com/dmitrymomot/dripsend/pkg/senderpool"
)

const (
	// maxPacingJitter is the random slack added to the fixed inter-send delay.
	maxPacingJitter = time.Second

	// throttlePause is how long the loop suspends once the hourly cap is hit.
	throttlePause = time.Minute
)

// Config controls pacing, throttling and reporting for dispatch runs.
// Zero fields fall back to the defaults noted on each field.
type Config struct {
	// RatePerMinute is the advertised target send rate (default 20). It is
	// reported in the acceptance receipt and, with PaceByRate, drives pacing.
	RatePerMinute int
	// JitterPercent widens the rate-derived gap by +/- this percentage
	// (default 50).
	JitterPercent int
	// MaxPerHour is the coarse hourly cap checked once per iteration
	// (default 50).
	MaxPerHour int
	// BaseDelay is the fixed inter-send delay (default 2s).
	BaseDelay time.Duration
	// PaceByRate switches pacing from BaseDelay+jitter to the gap implied
	// by RatePerMinute and JitterPercent. Off by default: the fixed delay
	// is the historical behavior, even though the rate-derived gap is what
	// the configuration suggests.
	PaceByRate bool
}

func (c Config) withDefaults() Config {
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = 20
	}
	if c.JitterPercent < 0 {
		c.JitterPercent = 50
	}
	if c.MaxPerHour <= 0 {
		c.MaxPerHour = 50
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 2 * time.Second
	}
	return c
}

// ComputeGap returns the minimum and maximum inter-send gap implied by a
// target rate and jitter percentage.
func ComputeGap(ratePerMinute, jitterPercent int) (lo, hi time.Duration) {
	if ratePerMinute < 1 {
		ratePerMinute = 1
	}
	if jitterPercent < 0 {
		jitterPercent = 0
	}
	base := time.Minute / time.Duration(ratePerMinute)
	delta := base * time.Duration(jitterPercent) / 100
	return base - delta, base + delta
}

// Dispatcher runs campaigns as detached background jobs: strictly
// sequential per-recipient sends, random sender rotation, paced delays,
// and write-through status/ledger updates into the Store.
type Dispatcher struct {
	store    Store
	pool     *senderpool.Pool
	sender   mailer.Sender
	renderer *mailer.Renderer
	log      *slog.Logger
	pOpts    []personalize.Option

	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
	randInt func(n int) int

	cfg     Config
	lastJob string
	cancels map[string]context.CancelFunc
	mu      sync.Mutex
}

// New creates a dispatcher. The sender should already be wrapped with
// retry behavior (mailer.NewRetrySender); the dispatcher treats any send
// error as a terminal per-recipient failure.
func New(store Store, pool *senderpool.Pool, sender mailer.Sender, renderer *mailer.Renderer, cfg Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		pool:     pool,
		sender:   sender,
		renderer: renderer,
		log:      slog.New(slog.DiscardHandler),
		cfg:      cfg.withDefaults(),
		sleep:    sleepContext,
		now:      time.Now,
		randInt:  defaultRandInt,
		cancels:  make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start validates and accepts a campaign, then launches the run as a
// detached background job. The returned receipt is the only synchronous
// answer the caller gets; progress is observed through the Store.
//
// The run inherits values from ctx but not its cancellation: an HTTP
// request ending must not stop the campaign. Cancel stops it explicitly.
func (d *Dispatcher) Start(ctx context.Context, c Campaign) (*Receipt, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Body = strings.TrimSpace(c.Body)
	switch {
	case c.Name == "":
		return nil, ErrMissingName
	case c.Subject == "":
		return nil, ErrMissingSubject
	case c.Body == "":
		return nil, ErrMissingBody
	}
	c.Recipients = SanitizeRecipients(c.Recipients)
	if len(c.Recipients) == 0 {
		return nil, ErrNoRecipients
	}

	senders, err := d.pool.Addresses(ctx)
	if err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	st := Status{
		CampaignName: c.Name,
		Total:        len(c.Recipients),
		IsRunning:    true,
		StartTime:    d.now(),
	}
	if err := d.store.PutStatus(ctx, jobID, st); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.mu.Lock()
	d.lastJob = jobID
	d.cancels[jobID] = cancel
	d.mu.Unlock()

	go d.run(runCtx, jobID, c, senders, st)

	return &Receipt{
		JobID:         jobID,
		Recipients:    len(c.Recipients),
		Senders:       len(senders),
		RatePerMinute: d.cfg.RatePerMinute,
		JitterPercent: d.cfg.JitterPercent,
	}, nil
}

// Cancel stops a running campaign at its next suspension point. It reports
// whether the job was active; finished jobs cannot be canceled.
func (d *Dispatcher) Cancel(jobID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	cancel, ok := d.cancels[jobID]
	if ok {
		cancel()
	}
	return ok
}

// LatestJob returns the most recently started job ID, or "" before the
// first campaign.
func (d *Dispatcher) LatestJob() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastJob
}

// run is the drip loop. It owns the job's status and ledger exclusively;
// everything observable goes through the store.
func (d *Dispatcher) run(ctx context.Context, jobID string, c Campaign, senders []string, st Status) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("campaign run panicked",
				slog.String("job_id", jobID),
				slog.String("campaign", c.Name),
				slog.Any("panic", r),
			)
		}
		st.IsRunning = false
		st.Completed = true
		if err := d.store.PutStatus(context.WithoutCancel(ctx), jobID, st); err != nil {
			d.log.Error("failed to finalize campaign status",
				slog.String("job_id", jobID), slog.String("error", err.Error()))
		}
		d.mu.Lock()
		delete(d.cancels, jobID)
		d.mu.Unlock()
		d.log.Info("campaign finished",
			slog.String("job_id", jobID),
			slog.String("campaign", c.Name),
			slog.Int("successful", st.Successful),
			slog.Int("failed", st.Failed),
			slog.Int("total", st.Total),
		)
	}()

	start := d.now()
	for i, r := range c.Recipients {
		if ctx.Err() != nil {
			d.log.Info("campaign canceled",
				slog.String("job_id", jobID), slog.Int("sent", st.Sent))
			return
		}

		from := senders[d.randInt(len(senders))]
		subject := personalize.Content(c.Subject, r.Name, r.Email, i, from, d.pOpts...)
		body := personalize.Content(c.Body, r.Name, r.Email, i, from, d.pOpts...)

		// Coarse hourly throttle: average rate so far, checked once per
		// iteration. Not a token bucket.
		if st.Sent > 0 {
			elapsedHours := d.now().Sub(start).Hours()
			if elapsedHours > 0 && float64(st.Sent)/elapsedHours > float64(d.cfg.MaxPerHour) {
				d.log.Info("hourly cap reached, pausing",
					slog.String("job_id", jobID), slog.Int("sent", st.Sent))
				if d.sleep(ctx, throttlePause) != nil {
					return
				}
			}
		}

		err := d.deliver(ctx, from, r, subject, body)
		st.Sent++
		rec := DetailRecord{
			Timestamp:      d.now(),
			CampaignName:   c.Name,
			RecipientEmail: r.Email,
			SenderEmail:    from,
			Status:         DetailSuccess,
		}
		if err != nil {
			st.Failed++
			rec.Status = DetailError
			rec.Error = err.Error()
			d.log.Error("send failed",
				slog.String("job_id", jobID),
				slog.String("to", r.Email),
				slog.String("from", from),
				slog.String("error", err.Error()),
			)
		} else {
			st.Successful++
			d.log.Info("sent",
				slog.String("job_id", jobID),
				slog.String("to", r.Email),
				slog.String("from", from),
				slog.Int("sent", st.Sent),
				slog.Int("total", st.Total),
			)
		}
		if err := d.store.AppendDetail(ctx, jobID, rec); err != nil {
			d.log.Error("failed to append ledger entry",
				slog.String("job_id", jobID), slog.String("error", err.Error()))
		}
		if err := d.store.PutStatus(ctx, jobID, st); err != nil {
			d.log.Error("failed to update campaign status",
				slog.String("job_id", jobID), slog.String("error", err.Error()))
		}

		if d.sleep(ctx, d.pacingDelay()) != nil {
			return
		}
	}
}

// deliver renders and sends one message. Any error is a terminal
// per-recipient failure; retries already happened inside the sender.
func (d *Dispatcher) deliver(ctx context.Context, from string, r Recipient, subject, body string) error {
	html, err := d.renderer.Render(body)
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, &mailer.Email{
		From:    from,
		To:      r.Email,
		Subject: subject,
		HTML:    html,
		Text:    body,
		Headers: d.deliverabilityHeaders(),
	})
}

// deliverabilityHeaders builds the inbox-friendly header set attached to
// every campaign message.
func (d *Dispatcher) deliverabilityHeaders() map[string]string {
	domain := d.pool.Domain()
	return map[string]string{
		"X-Priority":            "3",
		"X-MSMail-Priority":     "Normal",
		"Importance":            "Normal",
		"Message-ID":            fmt.Sprintf("<%d.%s@%s>", d.now().UnixMilli(), uuid.NewString(), domain),
		"List-Unsubscribe":      fmt.Sprintf("<mailto:unsubscribe@%s?subject=Unsubscribe>", domain),
		"List-Unsubscribe-Post": "List-Unsubscribe=One-Click",
		"Precedence":            "bulk",
	}
}

// pacingDelay returns the sleep between recipients: the fixed base delay
// plus up to a second of jitter, or the rate-derived gap when PaceByRate
// is set.
func (d *Dispatcher) pacingDelay() time.Duration {
	if d.cfg.PaceByRate {
		lo, hi := ComputeGap(d.cfg.RatePerMinute, d.cfg.JitterPercent)
		if hi <= lo {
			return lo
		}
		return lo + time.Duration(d.randInt(int(hi-lo)))
	}
	return d.cfg.BaseDelay + time.Duration(d.randInt(int(maxPacingJitter/time.Millisecond)))*time.Millisecond
}

// sleepContext blocks for delay or until ctx is done.
func sleepContext(ctx context.Context, delay time.Duration) error {
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
