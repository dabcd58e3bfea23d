package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
)

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher executes compiled searches against the document index.
type Searcher interface {
	Pinger
	Search(ctx context.Context, q *query.Compiled) (*SearchResult, error)
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// KVStore provides the counter operations used for usage tracking.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// SearchResult is the raw outcome of a search call.
// Hits is nil when the backend response carried no hits container.
// ErrorReason is set when the backend answered with an embedded error.
type SearchResult struct {
	Hits        *Hits
	ErrorReason string
}

// Hits is the hits container of a search response.
type Hits struct {
	Total   int64
	Entries []Hit
}

// Hit is a single matching document.
type Hit struct {
	Index  string
	ID     string
	Source json.RawMessage
}
