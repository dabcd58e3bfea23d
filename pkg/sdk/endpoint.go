package searchgate

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/kailas-cloud/searchgate/internal/config"
	"github.com/kailas-cloud/searchgate/internal/domain/search/params"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
	"github.com/kailas-cloud/searchgate/internal/domain/search/result"
)

// Endpoint describes one search endpoint. Field semantics match the
// endpoints section of the server config; zero values take the same defaults.
type Endpoint struct {
	Name              string
	Index             string
	BaseQuery         map[string]any
	AllowedFields     []string
	DefaultSort       string // "field:asc" or "field:desc"
	Sort              string // "any" (default), "date_only" or "none"
	DateField         string
	GeoField          string
	TypeField         string
	HistoryPrefix     string
	PreserveIndexName bool
	Lucene            bool
	DefaultSize       int
	MaxSize           int
	MaxHistoryDays    int
	WildcardPattern   string
	PreProcess        string // built-in hook name: "last_day", "cap_page"
	PostProcess       string // built-in hook name: "drop_private"
}

func (e Endpoint) policy() (policy.Policy, error) {
	cfg := config.Config{Endpoints: []config.EndpointConfig{{
		Name:              e.Name,
		Index:             e.Index,
		BaseQuery:         e.BaseQuery,
		AllowedFields:     e.AllowedFields,
		DefaultSort:       e.DefaultSort,
		Sort:              e.Sort,
		DateField:         e.DateField,
		GeoField:          e.GeoField,
		TypeField:         e.TypeField,
		HistoryPrefix:     e.HistoryPrefix,
		PreserveIndexName: e.PreserveIndexName,
		Lucene:            e.Lucene,
		DefaultSize:       e.DefaultSize,
		MaxSize:           e.MaxSize,
		MaxHistoryDays:    e.MaxHistoryDays,
		WildcardPattern:   e.WildcardPattern,
		PreProcess:        e.PreProcess,
		PostProcess:       e.PostProcess,
	}}}
	cfg.ApplyDefaults()

	policies, err := cfg.Policies(policy.BuiltinHooks())
	if err != nil {
		return policy.Policy{}, fmt.Errorf("searchgate: endpoint %q: %w", e.Name, err)
	}
	return policies[0], nil
}

// Result is the response envelope of a successful search.
type Result struct {
	Info      string
	Total     int64
	Returning int64
	Results   []map[string]any
}

// CompiledQuery is the backend request a query string compiles to.
type CompiledQuery struct {
	Index             string
	IgnoreUnavailable bool
	Body              map[string]any
}

// EndpointService runs searches against one endpoint.
type EndpointService struct {
	policy policy.Policy
	svc    searchUseCase
	obs    *observer
}

// Search validates, compiles and executes a query string.
// Rejections and backend failures are returned as *Error.
func (s *EndpointService) Search(ctx context.Context, values url.Values) (_ Result, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err, "endpoint", s.policy.Name) }()

	env, err := s.svc.Search(ctx, s.policy, params.New(values))
	if err != nil {
		return Result{}, err
	}
	return Result{
		Info:      env.Info,
		Total:     env.Total,
		Returning: env.Returning,
		Results:   env.Results,
	}, nil
}

// Compile returns the backend request Search would send, without executing it.
func (s *EndpointService) Compile(values url.Values) (_ CompiledQuery, err error) {
	start := time.Now()
	defer func() { s.obs.observe("compile", start, err, "endpoint", s.policy.Name) }()

	q, err := s.svc.Compile(s.policy, params.New(values))
	if err != nil {
		return CompiledQuery{}, err
	}
	body, err := q.Body()
	if err != nil {
		return CompiledQuery{}, fmt.Errorf("render body: %w", err)
	}
	return CompiledQuery{
		Index:             q.Index,
		IgnoreUnavailable: q.IgnoreUnavailable,
		Body:              body,
	}, nil
}

// searchUseCase is the internal interface for compiling and executing searches.
type searchUseCase interface {
	Search(ctx context.Context, pol policy.Policy, p params.Params) (result.Envelope, error)
	Compile(pol policy.Policy, p params.Params) (query.Compiled, error)
}
