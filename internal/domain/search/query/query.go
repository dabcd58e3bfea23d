// Package query holds the backend-ready compiled search request.
package query

import (
	"fmt"

	"github.com/kailas-cloud/searchgate/internal/domain/search/clause"
)

// Compiled is a validated, structured search request. Its clauses are
// AND-combined under a single bool/must.
type Compiled struct {
	Index             string
	IgnoreUnavailable bool
	Must              []clause.Clause
	Size              int
	From              int
	Sort              clause.Sort
	SourceInclude     []string
}

// WithClause returns a copy of q with c appended to the must clauses.
// The receiver's slice is never shared with the result.
func (q Compiled) WithClause(c clause.Clause) Compiled {
	must := make([]clause.Clause, 0, len(q.Must)+1)
	must = append(must, q.Must...)
	q.Must = append(must, c)
	return q
}

// HasClause reports whether q carries a clause of kind k.
func (q Compiled) HasClause(k clause.Kind) bool {
	for _, c := range q.Must {
		if c.Kind() == k {
			return true
		}
	}
	return false
}

// Query renders {"bool": {"must": [...]}}.
func (q Compiled) Query() (map[string]any, error) {
	must := make([]any, 0, len(q.Must))
	for i, c := range q.Must {
		src, err := c.Source()
		if err != nil {
			return nil, fmt.Errorf("clause %d (%s): %w", i, c.Kind(), err)
		}
		must = append(must, src)
	}
	return map[string]any{
		"bool": map[string]any{"must": must},
	}, nil
}

// Body renders the full search body: query, size, from, sort and _source.
func (q Compiled) Body() (map[string]any, error) {
	qs, err := q.Query()
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"query": qs,
		"size":  q.Size,
		"from":  q.From,
	}
	if q.Sort != nil {
		src, err := q.Sort.Source()
		if err != nil {
			return nil, fmt.Errorf("sort: %w", err)
		}
		body["sort"] = []any{src}
	}
	if len(q.SourceInclude) > 0 {
		body["_source"] = q.SourceInclude
	}
	return body, nil
}
