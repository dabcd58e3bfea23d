package usage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domusage "github.com/kailas-cloud/searchgate/internal/domain/usage"
)

// Service records and reports endpoint usage.
type Service struct {
	counter Counter
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a Service. counter can be nil (counting disabled).
func New(counter Counter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{counter: counter, logger: logger, now: time.Now}
}

// Enabled reports whether counters are backed by a store.
func (s *Service) Enabled() bool { return s.counter != nil }

// Record counts one executed search. Failures are logged and swallowed.
func (s *Service) Record(ctx context.Context, endpoint string) {
	if s.counter == nil {
		return
	}
	if err := s.counter.Incr(ctx, endpoint, s.now(), 1); err != nil {
		s.logger.Warn("usage counter update failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
	}
}

// Today builds the usage report for the current UTC day.
func (s *Service) Today(ctx context.Context, endpoint string) (domusage.Report, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	if s.counter != nil {
		n, err := s.counter.Count(ctx, endpoint, now)
		if err != nil {
			return domusage.Report{}, fmt.Errorf("usage of %s: %w", endpoint, err)
		}
		count = n
	}

	return domusage.NewReport(endpoint, domusage.PeriodDay, dayStart.UnixMilli(), dayEnd.UnixMilli(), count), nil
}
