package usage

import (
	"context"
	"time"
)

// Counter keeps per-endpoint daily search counters.
type Counter interface {
	Incr(ctx context.Context, endpoint string, day time.Time, n int64) error
	Count(ctx context.Context, endpoint string, day time.Time) (int64, error)
}
