package campaign

import (
	"context"
	"sync"
)

// defaultMaxJobs caps how many jobs a MemoryStore retains. The Redis
// store expires job keys after its retention window; this cap is the
// in-process counterpart so a long-lived server does not accumulate one
// ledger per campaign forever.
const defaultMaxJobs = 100

// MemoryStore keeps job state in process memory. It is the default store;
// state does not survive a restart. Once the job cap is reached, creating
// a new job evicts the oldest finished one (or the oldest outright when
// everything is still running).
type MemoryStore struct {
	jobs    map[string]*memoryJob
	order   []string
	maxJobs int
	mu      sync.RWMutex
}

type memoryJob struct {
	status Status
	ledger *Ledger
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMaxJobs overrides how many jobs are retained.
func WithMaxJobs(n int) MemoryOption {
	return func(s *MemoryStore) { s.maxJobs = n }
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		jobs:    make(map[string]*memoryJob),
		maxJobs: defaultMaxJobs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutStatus implements Store.
func (s *MemoryStore) PutStatus(_ context.Context, jobID string, st Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		s.evictLocked()
		job = &memoryJob{ledger: NewLedger(LedgerCap)}
		s.jobs[jobID] = job
		s.order = append(s.order, jobID)
	}
	job.status = st
	return nil
}

// evictLocked makes room for one more job when the cap is reached,
// preferring the oldest completed job over a running one.
func (s *MemoryStore) evictLocked() {
	if s.maxJobs <= 0 || len(s.order) < s.maxJobs {
		return
	}
	victim := 0
	for i, id := range s.order {
		if s.jobs[id].status.Completed {
			victim = i
			break
		}
	}
	delete(s.jobs, s.order[victim])
	s.order = append(s.order[:victim], s.order[victim+1:]...)
}

// GetStatus implements Store.
func (s *MemoryStore) GetStatus(_ context.Context, jobID string) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return Status{}, ErrJobNotFound
	}
	return job.status, nil
}

// AppendDetail implements Store.
func (s *MemoryStore) AppendDetail(_ context.Context, jobID string, rec DetailRecord) error {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return ErrJobNotFound
	}
	job.ledger.Append(rec)
	return nil
}

// Details implements Store.
func (s *MemoryStore) Details(_ context.Context, jobID string, n int) ([]DetailRecord, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.ledger.Last(n), nil
}
