package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	search Pinger
	kv     Pinger
}

// New creates a Service. kv can be nil when usage counters are disabled.
func New(search, kv Pinger) *Service {
	return &Service{search: search, kv: kv}
}

// Check pings the search backend and, when configured, the counter store.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"elasticsearch": check(ctx, s.search),
	}
	if s.kv != nil {
		checks["redis"] = check(ctx, s.kv)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func check(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
