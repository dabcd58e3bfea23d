package searchgate

import (
	"context"
	"errors"
	"time"

	domusage "github.com/kailas-cloud/searchgate/internal/domain/usage"
)

// ErrUsageDisabled is returned by Usage when the client has no Redis store.
var ErrUsageDisabled = errors.New("searchgate: usage counters disabled (use WithRedis)")

// UsageReport is the number of searches an endpoint served in a period.
type UsageReport struct {
	Endpoint    string
	Period      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Searches    int64
}

// Usage returns today's (UTC) search count for an endpoint.
func (c *Client) Usage(ctx context.Context, endpoint string) (_ UsageReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, err, "endpoint", endpoint) }()

	if !c.usageSvc.Enabled() {
		return UsageReport{}, ErrUsageDisabled
	}
	report, err := c.usageSvc.Today(ctx, endpoint)
	if err != nil {
		return UsageReport{}, err
	}
	return UsageReport{
		Endpoint:    report.Endpoint(),
		Period:      string(report.Period()),
		PeriodStart: time.UnixMilli(report.PeriodStart()).UTC(),
		PeriodEnd:   time.UnixMilli(report.PeriodEnd()).UTC(),
		Searches:    report.Searches(),
	}, nil
}

// usageUseCase is the internal interface for usage counters.
type usageUseCase interface {
	Enabled() bool
	Record(ctx context.Context, endpoint string)
	Today(ctx context.Context, endpoint string) (domusage.Report, error)
}
