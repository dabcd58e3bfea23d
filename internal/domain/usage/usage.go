package usage

// Period is the aggregation granularity.
type Period string

// PeriodDay is the only period counters are kept for.
const PeriodDay Period = "day"

// Report is the search usage of one endpoint over a time period.
type Report struct {
	endpoint    string
	period      Period
	periodStart int64
	periodEnd   int64
	searches    int64
}

// NewReport creates a usage report.
func NewReport(endpoint string, period Period, start, end, searches int64) Report {
	return Report{
		endpoint:    endpoint,
		period:      period,
		periodStart: start,
		periodEnd:   end,
		searches:    searches,
	}
}

// Endpoint returns the endpoint name.
func (r *Report) Endpoint() string { return r.endpoint }

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Searches returns the number of executed searches.
func (r *Report) Searches() int64 { return r.searches }
