package campaign

import "context"

// Store persists per-job campaign state: a status snapshot plus a capped
// outcome ledger, keyed by job ID. Runs write through the store so status
// polling observes progress without touching the running goroutine.
type Store interface {
	// PutStatus writes the status snapshot for a job, creating the job
	// record on first write.
	PutStatus(ctx context.Context, jobID string, st Status) error

	// GetStatus returns the current status snapshot.
	// Returns ErrJobNotFound for unknown jobs.
	GetStatus(ctx context.Context, jobID string) (Status, error)

	// AppendDetail appends one outcome record to the job's ledger,
	// evicting the oldest entry beyond LedgerCap.
	AppendDetail(ctx context.Context, jobID string, rec DetailRecord) error

	// Details returns up to n of the most recent ledger records in
	// chronological order. Returns ErrJobNotFound for unknown jobs.
	Details(ctx context.Context, jobID string, n int) ([]DetailRecord, error)
}
