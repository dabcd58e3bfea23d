package search

import (
	"context"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
)

// Searcher executes compiled searches against the backend.
type Searcher interface {
	Search(ctx context.Context, q *query.Compiled) (*db.SearchResult, error)
}

// UsageRecorder counts executed searches per endpoint. Implementations must
// not fail the request.
type UsageRecorder interface {
	Record(ctx context.Context, endpoint string)
}
