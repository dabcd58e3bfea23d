package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	domusage "github.com/kailas-cloud/searchgate/internal/domain/usage"
)

// --- Mock ---

type mockCounter struct {
	incrFn  func(ctx context.Context, endpoint string, day time.Time, n int64) error
	countFn func(ctx context.Context, endpoint string, day time.Time) (int64, error)
}

func (m *mockCounter) Incr(ctx context.Context, endpoint string, day time.Time, n int64) error {
	return m.incrFn(ctx, endpoint, day, n)
}

func (m *mockCounter) Count(ctx context.Context, endpoint string, day time.Time) (int64, error) {
	return m.countFn(ctx, endpoint, day)
}

var fixedNow = time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

func newService(c Counter) *Service {
	s := New(c, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

// --- Tests ---

func TestRecord(t *testing.T) {
	var gotEndpoint string
	var gotN int64
	s := newService(&mockCounter{
		incrFn: func(_ context.Context, endpoint string, day time.Time, n int64) error {
			gotEndpoint, gotN = endpoint, n
			if !day.Equal(fixedNow) {
				t.Errorf("day = %v", day)
			}
			return nil
		},
	})

	s.Record(context.Background(), "logs")

	if gotEndpoint != "logs" || gotN != 1 {
		t.Errorf("incr(%q, %d)", gotEndpoint, gotN)
	}
}

func TestRecord_ErrorIsSwallowed(t *testing.T) {
	s := newService(&mockCounter{
		incrFn: func(context.Context, string, time.Time, int64) error { return errors.New("down") },
	})
	// Must not panic.
	s.Record(context.Background(), "logs")
}

func TestRecord_NilCounter(t *testing.T) {
	s := newService(nil)
	if s.Enabled() {
		t.Error("expected disabled service")
	}
	s.Record(context.Background(), "logs")
}

func TestToday(t *testing.T) {
	s := newService(&mockCounter{
		countFn: func(context.Context, string, time.Time) (int64, error) { return 7, nil },
	})

	r, err := s.Today(context.Background(), "logs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Period() != domusage.PeriodDay {
		t.Errorf("period = %q", r.Period())
	}
	dayStart := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart() != dayStart.UnixMilli() {
		t.Errorf("start = %d", r.PeriodStart())
	}
	if r.PeriodEnd() != dayStart.Add(24*time.Hour).UnixMilli() {
		t.Errorf("end = %d", r.PeriodEnd())
	}
	if r.Searches() != 7 || r.Endpoint() != "logs" {
		t.Errorf("report = %+v", r)
	}
}

func TestToday_Error(t *testing.T) {
	s := newService(&mockCounter{
		countFn: func(context.Context, string, time.Time) (int64, error) { return 0, errors.New("down") },
	})
	if _, err := s.Today(context.Background(), "logs"); err == nil {
		t.Fatal("expected error")
	}
}

func TestToday_NilCounter(t *testing.T) {
	s := newService(nil)
	r, err := s.Today(context.Background(), "logs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Searches() != 0 {
		t.Errorf("searches = %d", r.Searches())
	}
}
