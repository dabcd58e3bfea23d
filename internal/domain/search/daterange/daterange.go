// Package daterange validates ISO 8601 date windows and expands rolling
// history windows into date-suffixed index patterns.
package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/search/clause"
	"github.com/kailas-cloud/searchgate/internal/domain/search/params"
)

// MaxHistoryDays is the default limit on history + history_start.
const MaxHistoryDays = 90

// indexDateLayout is the date suffix of rolling indices (logstash-2024.01.31).
const indexDateLayout = "2006.01.02"

var isoLayouts = buildISOLayouts()

func buildISOLayouts() []string {
	layouts := []string{"2006", "2006-01", "2006-01-02", "20060102"}
	for _, sep := range []string{"T", " "} {
		for _, clock := range []string{"15", "15:04", "15:04:05", "150405"} {
			base := "2006-01-02" + sep + clock
			layouts = append(layouts, base, base+"Z07:00", base+"Z0700", base+"Z07")
		}
	}
	return layouts
}

// ParseISO8601 parses the common ISO 8601 calendar forms.
// Values without a zone are read as UTC.
func ParseISO8601(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate checks a date_start/date_end pair. Both absent is valid, and so is
// a start without an end (open-ended range).
func Validate(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	if start == "" {
		return domain.NewValidation("date_end provided without a corresponding date_start")
	}
	startTime, ok := ParseISO8601(start)
	if !ok {
		return domain.NewValidation(params.DateStart + " is not a valid ISO 8601 date")
	}
	if end == "" {
		return nil
	}
	endTime, ok := ParseISO8601(end)
	if !ok {
		return domain.NewValidation(params.DateEnd + " is not a valid ISO 8601 date")
	}
	if endTime.Before(startTime) {
		return domain.NewValidation("date_end is before date_start")
	}
	return nil
}

// Prepare builds the range clause on field, or nil when no start is given.
func Prepare(field, start, end string) *clause.Range {
	if start == "" {
		return nil
	}
	return &clause.Range{Field: field, GTE: start, LTE: end}
}

// IndexHistory lists "prefix-YYYY.MM.DD*" patterns for offsets
// offset..offset+days-1 counted back from now, in that order.
func IndexHistory(days, offset int, prefix string, now time.Time) string {
	prefix = strings.TrimRight(prefix, "-") + "-"
	now = now.UTC()

	patterns := make([]string, 0, days)
	for i := offset; i < offset+days; i++ {
		patterns = append(patterns, prefix+now.AddDate(0, 0, -i).Format(indexDateLayout)+"*")
	}
	return strings.Join(patterns, ",")
}

// History is a validated rolling-index window.
type History struct {
	Days   int
	Offset int
}

// ParseHistory reads history/history_start. It returns nil when neither is present.
// history defaults to 1 day when only history_start is given.
func ParseHistory(p params.Params, maxDays int) (*History, error) {
	if !p.Has(params.History) && !p.Has(params.HistoryStart) {
		return nil, nil
	}
	if maxDays <= 0 {
		maxDays = MaxHistoryDays
	}

	if p.Overflows(params.History) || p.Overflows(params.HistoryStart) {
		return nil, domain.NewValidation(fmt.Sprintf("History is not available beyond %d days.", maxDays))
	}

	days, hasDays, err := p.Int(params.History)
	if err != nil {
		return nil, domain.NewValidation("History specification must be numeric.")
	}
	offset, _, err := p.Int(params.HistoryStart)
	if err != nil {
		return nil, domain.NewValidation("History specification must be numeric.")
	}
	if !hasDays {
		days = 1
	}
	if days < 1 || offset < 0 {
		return nil, domain.NewValidation("History specification must be a positive number.")
	}
	if days+offset > maxDays {
		return nil, domain.NewValidation(fmt.Sprintf("History is not available beyond %d days.", maxDays))
	}
	return &History{Days: days, Offset: offset}, nil
}
