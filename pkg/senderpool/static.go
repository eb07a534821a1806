package senderpool

import (
	"context"
	"sync"
)

type identity struct {
	username    string
	displayName string
}

// StaticDirectory is an in-memory Directory seeded from configuration.
// It stands in for a provider-managed identity directory and preserves
// first-seen ordering of identities.
type StaticDirectory struct {
	mu      sync.RWMutex
	entries []identity
}

// NewStaticDirectory creates a directory pre-populated with the given
// local-parts, each using its username as display name.
func NewStaticDirectory(usernames ...string) *StaticDirectory {
	d := &StaticDirectory{entries: make([]identity, 0, len(usernames))}
	for _, u := range usernames {
		if u != "" {
			d.entries = append(d.entries, identity{username: u, displayName: u})
		}
	}
	return d
}

// List implements Directory. The domain argument is ignored: a static
// directory serves whatever domain the pool is configured with.
func (d *StaticDirectory) List(_ context.Context, _ string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.username
	}
	return out, nil
}

// Create implements Directory with create-or-update semantics.
func (d *StaticDirectory) Create(_ context.Context, _, username, displayName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.entries {
		if e.username == username {
			d.entries[i].displayName = displayName
			return nil
		}
	}
	d.entries = append(d.entries, identity{username: username, displayName: displayName})
	return nil
}

// Delete implements Directory.
func (d *StaticDirectory) Delete(_ context.Context, _, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.entries {
		if e.username == username {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return nil
		}
	}
	return ErrSenderNotFound
}
