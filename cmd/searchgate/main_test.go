package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testConfig = `
http:
  port: 8080
elastic:
  addrs: ["http://localhost:9200"]
endpoints:
  - name: logs
    index: logstash
    lucene: true
    default_sort: "@timestamp:desc"
`

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"searchgate", "--config", path}, args...))
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	out, err := runApp(t, "compile", "--endpoint", "logs", "size=5&q=status:ok&history=2")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var got struct {
		Index             string         `json:"index"`
		IgnoreUnavailable bool           `json:"ignore_unavailable"`
		Body              map[string]any `json:"body"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if strings.Count(got.Index, "logstash-") != 2 || !got.IgnoreUnavailable {
		t.Errorf("index = %q ignore = %v", got.Index, got.IgnoreUnavailable)
	}
	if got.Body["size"] != float64(5) {
		t.Errorf("size = %v", got.Body["size"])
	}
	if _, ok := got.Body["sort"]; !ok {
		t.Error("default sort missing")
	}
}

func TestCompileCommand_Rejected(t *testing.T) {
	_, err := runApp(t, "compile", "--endpoint", "logs", "size=100000000")
	if err == nil || !strings.Contains(err.Error(), "Request size too large") {
		t.Fatalf("error = %v", err)
	}

	_, err = runApp(t, "compile", "--endpoint", "nope", "")
	if err == nil || !strings.Contains(err.Error(), "endpoint not found") {
		t.Fatalf("error = %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "searchgate dev") {
		t.Errorf("output = %q", out)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/search/logs", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"internal error"}` {
		t.Errorf("body = %s", rr.Body)
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := chiMiddleware.RequestID(wideEventMiddleware(zap.New(core))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/search/logs?size=1", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one canonical line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["query"] != "size=1" {
		t.Errorf("fields = %v", fields)
	}
}
