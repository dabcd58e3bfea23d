package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
)

const sampleYAML = `
http:
  port: ${SEARCHGATE_TEST_PORT:-8080}
elastic:
  addrs: ["http://localhost:9200"]
  password: ${SEARCHGATE_TEST_ES_PASSWORD}
search:
  max_size: 5000
endpoints:
  - name: logs
    index: logstash
    lucene: true
    allowed_fields: [status, host]
    default_sort: "@timestamp:desc"
    sort: date_only
    pre_process: cap_page
  - name: places
    index: places
    max_size: 50
    base_query:
      term:
        public: true
    post_process: drop_private
`

func TestParse_ExpandsAndDefaults(t *testing.T) {
	t.Setenv("SEARCHGATE_TEST_ES_PASSWORD", "s3cret")

	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Elastic.Password != "s3cret" {
		t.Errorf("password = %q", cfg.Elastic.Password)
	}
	if cfg.Search.MaxSize != 5000 || cfg.Search.DefaultSize != 100 || cfg.Search.MaxHistoryDays != 90 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled without addrs")
	}
	if len(cfg.Endpoints) != 2 {
		t.Fatalf("endpoints = %d", len(cfg.Endpoints))
	}
	term, ok := cfg.Endpoints[1].BaseQuery["term"].(map[string]any)
	if !ok || term["public"] != true {
		t.Errorf("base_query = %#v", cfg.Endpoints[1].BaseQuery)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{
			HTTP:    HTTPConfig{Port: 8080},
			Elastic: ElasticConfig{Addrs: []string{"http://es:9200"}},
		}
		c.ApplyDefaults()
		return c
	}
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.HTTP.Port = 0 }, wantErr: "http.port"},
		{name: "no elastic", mutate: func(c *Config) { c.Elastic.Addrs = nil }, wantErr: "elastic.addrs is required"},
		{name: "default above max", mutate: func(c *Config) { c.Search.DefaultSize = c.Search.MaxSize + 1 },
			wantErr: "search.default_size"},
		{name: "unnamed endpoint", mutate: func(c *Config) { c.Endpoints = []EndpointConfig{{Index: "x"}} },
			wantErr: "endpoints[0].name is required"},
		{name: "duplicate endpoint", mutate: func(c *Config) {
			c.Endpoints = []EndpointConfig{{Name: "a"}, {Name: "a"}}
		}, wantErr: `duplicate endpoint "a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPolicies(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	policies, err := cfg.Policies(policy.BuiltinHooks())
	if err != nil {
		t.Fatalf("Policies: %v", err)
	}

	logs, places := policies[0], policies[1]
	if logs.Sort != policy.SortDateOnly || !logs.Lucene || logs.PreProcess == nil {
		t.Errorf("logs = %+v", logs)
	}
	if logs.MaxSize != 5000 || logs.DefaultSize != 100 {
		t.Errorf("logs sizes = %d/%d", logs.MaxSize, logs.DefaultSize)
	}
	if places.MaxSize != 50 || places.DefaultSize != 50 {
		t.Errorf("places sizes = %d/%d", places.MaxSize, places.DefaultSize)
	}
	if places.PostProcess == nil || places.HistoryPrefix != "places" {
		t.Errorf("places = %+v", places)
	}
}

func TestPolicies_Errors(t *testing.T) {
	tests := []struct {
		name     string
		endpoint EndpointConfig
		wantErr  string
	}{
		{name: "unknown pre hook", endpoint: EndpointConfig{Name: "a", Index: "a", PreProcess: "nope"},
			wantErr: `unknown pre_process hook "nope"`},
		{name: "unknown post hook", endpoint: EndpointConfig{Name: "a", Index: "a", PostProcess: "nope"},
			wantErr: `unknown post_process hook "nope"`},
		{name: "bad pattern", endpoint: EndpointConfig{Name: "a", Index: "a", WildcardPattern: "("},
			wantErr: "wildcard_pattern"},
		{name: "missing index", endpoint: EndpointConfig{Name: "a"}, wantErr: "index is required"},
		{name: "bad sort policy", endpoint: EndpointConfig{Name: "a", Index: "a", Sort: "random"},
			wantErr: "unknown sort policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Endpoints: []EndpointConfig{tt.endpoint}}
			cfg.ApplyDefaults()
			_, err := cfg.Policies(policy.BuiltinHooks())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Endpoints) != 2 {
		t.Errorf("endpoints = %d", len(cfg.Endpoints))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("default env = %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("env = %q", GetEnv())
	}
}

func TestApplyDefaults_DropsBlankAddrs(t *testing.T) {
	c := Config{Redis: RedisConfig{Addrs: []string{"", " "}}}
	c.ApplyDefaults()
	if c.Redis.Enabled() {
		t.Errorf("blank addrs should disable redis, got %v", c.Redis.Addrs)
	}
}
