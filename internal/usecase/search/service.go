package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/search/params"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
	"github.com/kailas-cloud/searchgate/internal/domain/search/result"
	"github.com/kailas-cloud/searchgate/internal/logger"
	"github.com/kailas-cloud/searchgate/internal/metrics"
)

// Service validates, compiles and executes endpoint searches.
// It is the only component of the search path that performs I/O.
type Service struct {
	searcher Searcher
	usage    UsageRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a search service. usage can be nil.
func New(searcher Searcher, usage UsageRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{searcher: searcher, usage: usage, logger: logger, now: time.Now}
}

// Compile validates p against pol and returns the request that Search would send.
func (s *Service) Compile(pol policy.Policy, p params.Params) (query.Compiled, error) {
	q, _, err := s.compile(pol, p)
	return q, err
}

func (s *Service) compile(pol policy.Policy, p params.Params) (query.Compiled, *Validated, error) {
	v, err := Validate(p, pol)
	if err != nil {
		return query.Compiled{}, nil, err
	}
	return Compile(v, pol, s.now()), v, nil
}

// Search runs one request end to end: validate, compile, execute, reshape.
// Failures before execution never reach the backend.
func (s *Service) Search(ctx context.Context, pol policy.Policy, p params.Params) (result.Envelope, error) {
	q, v, err := s.compile(pol, p)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(pol.Name, metrics.OutcomeRejected).Inc()
		return result.Envelope{}, err
	}

	log := logger.FromContext(ctx, s.logger).With(
		zap.String("endpoint", pol.Name),
		zap.String("index", q.Index),
	)

	start := time.Now()
	res, err := s.searcher.Search(ctx, &q)
	metrics.SearchBackendDuration.WithLabelValues(pol.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Error("search execution failed", zap.Error(err))
		metrics.SearchRequestsTotal.WithLabelValues(pol.Name, metrics.OutcomeBackend).Inc()
		return result.Envelope{}, domain.NewBackend(err)
	}
	if res.ErrorReason != "" {
		log.Error("search returned an error", zap.String("reason", res.ErrorReason))
		metrics.SearchRequestsTotal.WithLabelValues(pol.Name, metrics.OutcomeBackend).Inc()
		return result.Envelope{}, domain.NewBackend(errors.New(res.ErrorReason))
	}
	if res.Hits == nil {
		log.Warn("search response carried no hits")
		metrics.SearchRequestsTotal.WithLabelValues(pol.Name, metrics.OutcomeShape).Inc()
		return result.Envelope{}, domain.NewShape()
	}

	docs, err := documents(res.Hits.Entries, pol.PreserveIndexName)
	if err != nil {
		log.Error("decode hit source", zap.Error(err))
		metrics.SearchRequestsTotal.WithLabelValues(pol.Name, metrics.OutcomeBackend).Inc()
		return result.Envelope{}, domain.NewBackend(err)
	}
	if pol.PostProcess != nil {
		docs = pol.PostProcess(docs)
	}

	if s.usage != nil {
		s.usage.Record(ctx, pol.Name)
	}
	metrics.SearchRequestsTotal.WithLabelValues(pol.Name, metrics.OutcomeOK).Inc()
	metrics.SearchHitsTotal.WithLabelValues(pol.Name).Add(float64(len(docs)))

	return result.NewEnvelope(res.Hits.Total, q.Size, docs, v.SortUnavailable), nil
}

// documents maps hits to their source documents.
func documents(hits []db.Hit, withIndex bool) ([]result.Document, error) {
	docs := make([]result.Document, 0, len(hits))
	for i, h := range hits {
		doc := result.Document{}
		if len(h.Source) > 0 && string(h.Source) != "null" {
			if err := json.Unmarshal(h.Source, &doc); err != nil {
				return nil, fmt.Errorf("hit %d (%s/%s): %w", i, h.Index, h.ID, err)
			}
		}
		if withIndex {
			doc["_index"] = h.Index
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
