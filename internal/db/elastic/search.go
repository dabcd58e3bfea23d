package elastic

import (
	"context"
	"strings"

	"github.com/olivere/elastic/v7"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
)

const unknownErrorReason = "unknown backend error"

// boolQuery adapts a compiled request to elastic.Query so the must list
// renders as an array even when it holds a single clause.
type boolQuery struct {
	q *query.Compiled
}

func (b boolQuery) Source() (any, error) {
	return b.q.Query()
}

// Search issues exactly one search call for q.
func (s *Store) Search(ctx context.Context, q *query.Compiled) (*db.SearchResult, error) {
	svc := s.client.Search(indices(q.Index)...).
		Query(boolQuery{q: q}).
		Size(q.Size).
		From(q.From)

	if q.IgnoreUnavailable {
		svc = svc.IgnoreUnavailable(true).AllowNoIndices(true)
	}
	if q.Sort != nil {
		svc = svc.SortBy(q.Sort)
	}
	if len(q.SourceInclude) > 0 {
		svc = svc.FetchSourceContext(elastic.NewFetchSourceContext(true).Include(q.SourceInclude...))
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return convert(res), nil
}

func indices(index string) []string {
	parts := strings.Split(index, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func convert(res *elastic.SearchResult) *db.SearchResult {
	out := &db.SearchResult{}
	if res.Error != nil {
		out.ErrorReason = res.Error.Reason
		if out.ErrorReason == "" {
			out.ErrorReason = res.Error.Type
		}
		if out.ErrorReason == "" {
			out.ErrorReason = unknownErrorReason
		}
	}
	if res.Hits == nil {
		return out
	}

	hits := &db.Hits{
		Total:   res.TotalHits(),
		Entries: make([]db.Hit, 0, len(res.Hits.Hits)),
	}
	for _, h := range res.Hits.Hits {
		if h == nil {
			continue
		}
		hits.Entries = append(hits.Entries, db.Hit{
			Index:  h.Index,
			ID:     h.Id,
			Source: h.Source,
		})
	}
	out.Hits = hits
	return out
}
