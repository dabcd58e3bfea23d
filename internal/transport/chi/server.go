package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/search/params"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	healthuc "github.com/kailas-cloud/searchgate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
	usageuc "github.com/kailas-cloud/searchgate/internal/usecase/usage"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, pretty bool) bool

// Policies resolves endpoint names to their live policy.
type Policies interface {
	Get(name string) (policy.Policy, bool)
	List() []policy.Policy
}

// Server serves the search API over chi.
type Server struct {
	policies      Policies
	search        *searchuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	policies Policies,
	search *searchuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		policies: policies,
		search:   search,
		usage:    usage,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		searchErrorHandler,
		sentinelHandler(domain.ErrEndpointNotFound, http.StatusNotFound),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search/{endpoint}", s.Search)
	r.Get("/endpoints", s.ListEndpoints)
	r.Get("/usage/{endpoint}", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search/{endpoint}.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	p := params.New(r.URL.Query())
	pretty := p.Pretty()

	pol, ok := s.policies.Get(chi.URLParam(r, "endpoint"))
	if !ok {
		s.handleDomainError(w, domain.ErrEndpointNotFound, pretty)
		return
	}

	env, err := s.search.Search(r.Context(), pol, p)
	if err != nil {
		s.handleDomainError(w, err, pretty)
		return
	}
	writeJSON(w, http.StatusOK, env, pretty)
}

type endpointResponse struct {
	Name          string   `json:"name"`
	Index         string   `json:"index"`
	AllowedFields []string `json:"allowed_fields,omitempty"`
	Sort          string   `json:"sort"`
	Lucene        bool     `json:"lucene"`
	MaxSize       int      `json:"max_size"`
}

// ListEndpoints handles GET /endpoints.
func (s *Server) ListEndpoints(w http.ResponseWriter, r *http.Request) {
	list := s.policies.List()
	items := make([]endpointResponse, len(list))
	for i, p := range list {
		items[i] = endpointResponse{
			Name:          p.Name,
			Index:         p.Index,
			AllowedFields: p.AllowedFields,
			Sort:          string(p.Sort),
			Lucene:        p.Lucene,
			MaxSize:       p.MaxSize,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": items}, params.New(r.URL.Query()).Pretty())
}

type usageResponse struct {
	Endpoint      string    `json:"endpoint"`
	Period        string    `json:"period"`
	PeriodStartAt time.Time `json:"period_start_at"`
	PeriodEndAt   time.Time `json:"period_end_at"`
	Searches      int64     `json:"searches"`
	Enabled       bool      `json:"enabled"`
}

// GetUsage handles GET /usage/{endpoint}.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	pretty := params.New(r.URL.Query()).Pretty()
	name := chi.URLParam(r, "endpoint")
	if _, ok := s.policies.Get(name); !ok {
		s.handleDomainError(w, domain.ErrEndpointNotFound, pretty)
		return
	}

	report, err := s.usage.Today(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err, pretty)
		return
	}

	writeJSON(w, http.StatusOK, usageResponse{
		Endpoint:      report.Endpoint(),
		Period:        string(report.Period()),
		PeriodStartAt: time.UnixMilli(report.PeriodStart()).UTC(),
		PeriodEndAt:   time.UnixMilli(report.PeriodEnd()).UTC(),
		Searches:      report.Searches(),
		Enabled:       s.usage.Enabled(),
	}, pretty)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	}, false)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

// writeError writes the {"error": message} body every failure uses.
func writeError(w http.ResponseWriter, status int, message string, pretty bool) {
	writeJSON(w, status, map[string]string{"error": message}, pretty)
}

// searchErrorHandler surfaces *domain.Error with its own status and client-safe message.
func searchErrorHandler(w http.ResponseWriter, err error, pretty bool) bool {
	de, ok := domain.AsError(err)
	if !ok {
		return false
	}
	status := de.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	writeError(w, status, de.Message, pretty)
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, pretty bool) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Error(), pretty)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error, pretty bool) {
	s.logger.Debug("request failed", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err, pretty) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", pretty)
}
