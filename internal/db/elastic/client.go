// Package elastic implements db.Searcher on top of an Elasticsearch cluster.
package elastic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/olivere/elastic/v7"

	"github.com/kailas-cloud/searchgate/internal/db"
)

// Compile-time check: Store implements db.Searcher.
var _ db.Searcher = (*Store)(nil)

// Config holds connection parameters for an Elasticsearch store.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	Sniff       bool
	Healthcheck bool
	HTTPClient  *http.Client
}

// Store implements db.Searcher via olivere/elastic.
type Store struct {
	client *elastic.Client
}

// NewStore creates an Elasticsearch store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(cfg.Addrs...),
		elastic.SetSniff(cfg.Sniff),
		elastic.SetHealthcheck(cfg.Healthcheck),
	}
	if cfg.Username != "" {
		opts = append(opts, elastic.SetBasicAuth(cfg.Username, cfg.Password))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, elastic.SetHttpClient(cfg.HTTPClient))
	}

	client, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks cluster health.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.client.ClusterHealth().Do(ctx)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if res.Status == "red" {
		return &db.Error{Op: db.OpHealth, Err: fmt.Errorf("cluster %s is red", res.ClusterName)}
	}
	return nil
}

// Close stops background goroutines of the client.
func (s *Store) Close() {
	s.client.Stop()
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for elasticsearch: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
