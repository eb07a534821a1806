package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists job state in Redis, so status polling works across
// processes. Status snapshots are stored as JSON strings; the ledger is a
// capped list (RPUSH + LTRIM), which gives FIFO eviction for free.
//
// Retention is an operational convenience, not a durability guarantee:
// job keys expire after the configured retention window.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	retention time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the default "dripsend" key namespace.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.keyPrefix = prefix }
}

// WithRetention overrides how long finished job state is kept.
func WithRetention(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.retention = d }
}

// NewRedisStore creates a store on top of an existing Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		keyPrefix: "dripsend",
		retention: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) statusKey(jobID string) string {
	return fmt.Sprintf("%s:job:%s:status", s.keyPrefix, jobID)
}

func (s *RedisStore) ledgerKey(jobID string) string {
	return fmt.Sprintf("%s:job:%s:ledger", s.keyPrefix, jobID)
}

// PutStatus implements Store.
func (s *RedisStore) PutStatus(ctx context.Context, jobID string, st Status) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	if err := s.client.Set(ctx, s.statusKey(jobID), data, s.retention).Err(); err != nil {
		return fmt.Errorf("store status: %w", err)
	}
	return nil
}

// GetStatus implements Store.
func (s *RedisStore) GetStatus(ctx context.Context, jobID string) (Status, error) {
	data, err := s.client.Get(ctx, s.statusKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Status{}, ErrJobNotFound
		}
		return Status{}, fmt.Errorf("load status: %w", err)
	}
	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		return Status{}, fmt.Errorf("unmarshal status: %w", err)
	}
	return st, nil
}

// AppendDetail implements Store. The ledger list is trimmed to the most
// recent LedgerCap entries on every append.
func (s *RedisStore) AppendDetail(ctx context.Context, jobID string, rec DetailRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal detail: %w", err)
	}
	key := s.ledgerKey(jobID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -int64(LedgerCap), -1)
	pipe.Expire(ctx, key, s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append detail: %w", err)
	}
	return nil
}

// Details implements Store.
func (s *RedisStore) Details(ctx context.Context, jobID string, n int) ([]DetailRecord, error) {
	if _, err := s.GetStatus(ctx, jobID); err != nil {
		return nil, err
	}
	start := int64(0)
	if n > 0 {
		start = -int64(n)
	}
	items, err := s.client.LRange(ctx, s.ledgerKey(jobID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load details: %w", err)
	}
	out := make([]DetailRecord, 0, len(items))
	for _, item := range items {
		var rec DetailRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal detail: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
