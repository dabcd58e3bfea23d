package search

import (
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain/search/clause"
	"github.com/kailas-cloud/searchgate/internal/domain/search/daterange"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
)

// Compile assembles the backend request for v. It is pure: now only feeds the
// history index list. Must order is base query, query string, date range,
// geo, type term. The endpoint's pre-process hook runs last and its result
// replaces the compiled query.
func Compile(v *Validated, pol policy.Policy, now time.Time) query.Compiled {
	q := query.Compiled{
		Index:         pol.Index,
		Must:          make([]clause.Clause, 0, 5),
		Size:          v.Size,
		From:          v.From,
		SourceInclude: v.SourceInclude,
	}

	if len(pol.BaseQuery) > 0 {
		q.Must = append(q.Must, clause.Raw{Body: pol.BaseQuery})
	}
	if v.Query != "" {
		q.Must = append(q.Must, clause.QueryString{Query: v.Query})
	}
	if v.DateRange != nil {
		q.Must = append(q.Must, *v.DateRange)
	}
	if v.Geo != nil {
		q.Must = append(q.Must, v.Geo.Clause)
	}
	if v.Type != "" {
		q.Must = append(q.Must, clause.Term{Field: pol.TypeField, Value: v.Type})
	}

	if v.History != nil {
		q.Index = daterange.IndexHistory(v.History.Days, v.History.Offset, pol.HistoryPrefix, now)
		q.IgnoreUnavailable = true
	}

	q.Sort = resolveSort(v, pol)

	if pol.PreProcess != nil {
		q = pol.PreProcess(q, pol)
	}
	return q
}

// resolveSort picks the request sort, then the geo distance sort, then the
// endpoint default.
func resolveSort(v *Validated, pol policy.Policy) clause.Sort {
	if v.Sort != nil {
		return *v.Sort
	}
	if v.Geo != nil && v.Geo.Sort != nil {
		return v.Geo.Sort
	}
	if pol.DefaultSort == "" {
		return nil
	}
	s, err := clause.ParseFieldSort(pol.DefaultSort)
	if err != nil {
		// Normalize rejects unparsable defaults.
		return nil
	}
	return s
}
