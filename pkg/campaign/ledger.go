package campaign

import "sync"

// LedgerCap is the maximum number of detail records retained per job.
const LedgerCap = 200

// Ledger is a fixed-capacity FIFO ring of per-recipient outcomes: once
// full, appending evicts the oldest record.
type Ledger struct {
	records  []DetailRecord
	head     int
	size     int
	capacity int
	mu       sync.RWMutex
}

// NewLedger creates a ledger holding at most capacity records.
// Non-positive capacities fall back to LedgerCap.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = LedgerCap
	}
	return &Ledger{
		records:  make([]DetailRecord, capacity),
		capacity: capacity,
	}
}

// Append adds a record, evicting the oldest one when full.
func (l *Ledger) Append(rec DetailRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[(l.head+l.size)%l.capacity] = rec
	if l.size < l.capacity {
		l.size++
	} else {
		l.head = (l.head + 1) % l.capacity
	}
}

// Last returns up to n of the most recent records in chronological order.
// Non-positive n returns everything retained.
func (l *Ledger) Last(n int) []DetailRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > l.size {
		n = l.size
	}
	out := make([]DetailRecord, 0, n)
	for i := l.size - n; i < l.size; i++ {
		out = append(out, l.records[(l.head+i)%l.capacity])
	}
	return out
}

// Len returns the number of retained records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}
