package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/searchgate/internal/db"
)

// store is the consumer interface for counter operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Store keeps per-endpoint daily search counters (INCRBY + GET with TTL).
type Store struct {
	store store
	ttl   time.Duration
}

// New creates a usage store. ttl is the lifetime of a daily key (recommended: 48h).
func New(s store, ttl time.Duration) *Store {
	return &Store{store: s, ttl: ttl}
}

// Key returns the counter key for endpoint on the UTC day of t.
func Key(endpoint string, t time.Time) string {
	return fmt.Sprintf("searchgate:usage:%s:daily:%s", endpoint, t.UTC().Format(time.DateOnly))
}

// Incr atomically increments the daily counter and sets its TTL.
func (s *Store) Incr(ctx context.Context, endpoint string, day time.Time, n int64) error {
	key := Key(endpoint, day)
	if err := s.store.IncrBy(ctx, key, n); err != nil {
		return fmt.Errorf("usage INCRBY %s: %w", key, err)
	}

	// NX: the first increment of the day owns the expiry.
	if err := s.store.Expire(ctx, key, s.ttl, true); err != nil {
		return fmt.Errorf("usage EXPIRE %s: %w", key, err)
	}
	return nil
}

// Count returns the daily counter. Returns 0 if the key does not exist.
func (s *Store) Count(ctx context.Context, endpoint string, day time.Time) (int64, error) {
	key := Key(endpoint, day)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("usage GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("usage GET %s parse: %w", key, err)
	}
	return val, nil
}
