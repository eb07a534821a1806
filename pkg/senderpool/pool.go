package senderpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrNoSenders indicates the directory holds no approved sender
	// identities for the domain.
	ErrNoSenders = errors.New("no approved sender addresses for domain")

	// ErrSenderNotFound indicates the identity does not exist.
	ErrSenderNotFound = errors.New("sender not found")
)

// DefaultTTL is how long a resolved sender list stays cached.
const DefaultTTL = 10 * time.Minute

// Directory lists and mutates the approved sender identities for a domain.
// Implementations wrap a provider's management plane (or stand in for one).
type Directory interface {
	// List returns the approved local-parts for the domain, in order.
	List(ctx context.Context, domain string) ([]string, error)

	// Create registers a sender identity. Existing identities are updated
	// in place.
	Create(ctx context.Context, domain, username, displayName string) error

	// Delete removes a sender identity.
	// Returns ErrSenderNotFound if it does not exist.
	Delete(ctx context.Context, domain, username string) error
}

// Pool resolves the approved sender addresses for one domain and caches
// the result. Refreshes are deduplicated with singleflight so concurrent
// callers on a cold cache trigger a single directory listing.
type Pool struct {
	dir      Directory
	now      func() time.Time
	cached   []string
	cachedAt time.Time
	sf       singleflight.Group
	domain   string
	ttl      time.Duration
	mu       sync.RWMutex
}

// Option configures a Pool.
type Option func(*Pool)

// WithTTL overrides the cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(p *Pool) { p.ttl = ttl }
}

// WithClock overrides the time source. Mostly useful in tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

// New creates a pool over the given directory and domain.
func New(dir Directory, domain string, opts ...Option) *Pool {
	p := &Pool{
		dir:    dir,
		domain: domain,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Domain returns the sending domain this pool serves.
func (p *Pool) Domain() string { return p.domain }

// Addresses returns the approved full sender addresses
// (local-part@domain), refreshing from the directory when the cache has
// expired. An empty directory is an error.
func (p *Pool) Addresses(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	if p.cached != nil && p.now().Sub(p.cachedAt) < p.ttl {
		addrs := p.cached
		p.mu.RUnlock()
		return addrs, nil
	}
	p.mu.RUnlock()

	v, err, _ := p.sf.Do(p.domain, func() (any, error) {
		locals, err := p.dir.List(ctx, p.domain)
		if err != nil {
			return nil, err
		}
		if len(locals) == 0 {
			return nil, ErrNoSenders
		}
		addrs := make([]string, len(locals))
		for i, local := range locals {
			addrs[i] = local + "@" + p.domain
		}
		p.mu.Lock()
		p.cached = addrs
		p.cachedAt = p.now()
		p.mu.Unlock()
		return addrs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Invalidate drops the cached addresses so the next Addresses call hits
// the directory again. Callers invalidate after every directory mutation;
// mutation and invalidation are sequential, so no further coordination is
// needed.
func (p *Pool) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.cachedAt = time.Time{}
	p.mu.Unlock()
}
