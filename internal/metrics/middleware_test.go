package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/search/{endpoint}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, ep := range []string{"logs", "events"} {
		req := httptest.NewRequest(http.MethodGet, "/search/"+ep, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/search/{endpoint}", "200"))
	if val < 2 {
		t.Errorf("expected both requests under the route pattern, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/status/{code}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "code") {
		case "400":
			w.WriteHeader(http.StatusBadRequest)
		case "500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte("ok"))
		}
	})

	tests := []struct {
		code string
		want string
	}{
		{"200", "200"},
		{"400", "400"},
		{"500", "500"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/status/{code}", tt.want))
			req := httptest.NewRequest(http.MethodGet, "/status/"+tt.code, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)
			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/status/{code}", tt.want))
			if after-before != 1 {
				t.Errorf("expected one request with status %s, got %f", tt.want, after-before)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("normalizePath(\"\") = %q", got)
	}
	if got := normalizePath("/health"); got != "/health" {
		t.Errorf("normalizePath(/health) = %q", got)
	}
}

func TestSearchMetrics_Exposed(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()

	SearchRequestsTotal.WithLabelValues("logs", OutcomeOK).Inc()

	rr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if !strings.Contains(rr.Body.String(), `searchgate_search_requests_total{endpoint="logs",outcome="ok"}`) {
		t.Error("expected search_requests_total in /metrics output")
	}
}
