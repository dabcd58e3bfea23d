package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the searchgate configuration.
type Config struct {
	HTTP      HTTPConfig       `yaml:"http"`
	Elastic   ElasticConfig    `yaml:"elastic"`
	Redis     RedisConfig      `yaml:"redis"`
	Search    SearchConfig     `yaml:"search"`
	Logging   LoggingConfig    `yaml:"logging"`
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticConfig holds search backend connection settings.
type ElasticConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	Sniff            bool     `yaml:"sniff"`
	Healthcheck      bool     `yaml:"healthcheck"`
	TimeoutSec       int      `yaml:"timeout_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RedisConfig holds usage counter store settings. No addrs disables counting.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a Redis store is configured.
func (r RedisConfig) Enabled() bool { return len(r.Addrs) > 0 }

// SearchConfig holds defaults shared by every endpoint.
type SearchConfig struct {
	DefaultSize    int `yaml:"default_size"`
	MaxSize        int `yaml:"max_size"`
	MaxHistoryDays int `yaml:"max_history_days"`
	UsageTTLHours  int `yaml:"usage_ttl_hours"`
}

// EndpointConfig describes one search endpoint. Hooks are referenced by name.
type EndpointConfig struct {
	Name              string         `yaml:"name"`
	Index             string         `yaml:"index"`
	BaseQuery         map[string]any `yaml:"base_query"`
	AllowedFields     []string       `yaml:"allowed_fields"`
	DefaultSort       string         `yaml:"default_sort"`
	Sort              string         `yaml:"sort"` // any (default), date_only, none
	DateField         string         `yaml:"date_field"`
	GeoField          string         `yaml:"geo_field"`
	TypeField         string         `yaml:"type_field"`
	HistoryPrefix     string         `yaml:"history_prefix"`
	PreserveIndexName bool           `yaml:"preserve_index_name"`
	Lucene            bool           `yaml:"lucene"`
	DefaultSize       int            `yaml:"default_size"`
	MaxSize           int            `yaml:"max_size"`
	MaxHistoryDays    int            `yaml:"max_history_days"`
	WildcardPattern   string         `yaml:"wildcard_pattern"`
	PreProcess        string         `yaml:"pre_process"`
	PostProcess       string         `yaml:"post_process"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(FindConfigPath(env))
}

// LoadFile reads, expands, defaults and validates the configuration at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML bytes.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	// Unset ${VAR} expansions leave blank addresses behind.
	c.Elastic.Addrs = nonBlank(c.Elastic.Addrs)
	c.Redis.Addrs = nonBlank(c.Redis.Addrs)

	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Elastic.TimeoutSec <= 0 {
		c.Elastic.TimeoutSec = 30
	}
	if c.Elastic.ReadinessTimeout <= 0 {
		c.Elastic.ReadinessTimeout = 30
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Search.MaxSize <= 0 {
		c.Search.MaxSize = 100000
	}
	if c.Search.DefaultSize <= 0 {
		c.Search.DefaultSize = min(100, c.Search.MaxSize)
	}
	if c.Search.MaxHistoryDays <= 0 {
		c.Search.MaxHistoryDays = 90
	}
	if c.Search.UsageTTLHours <= 0 {
		c.Search.UsageTTLHours = 48
	}
}

// Validate checks the configuration for correctness. Endpoint policies are
// validated separately by Policies.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Elastic.Addrs) == 0 {
		return fmt.Errorf("elastic.addrs is required")
	}
	if c.Search.DefaultSize > c.Search.MaxSize {
		return fmt.Errorf("search.default_size (%d) must not exceed search.max_size (%d)",
			c.Search.DefaultSize, c.Search.MaxSize)
	}
	seen := make(map[string]bool, len(c.Endpoints))
	for i, e := range c.Endpoints {
		if e.Name == "" {
			return fmt.Errorf("endpoints[%d].name is required", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("endpoints[%d]: duplicate endpoint %q", i, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

// FindConfigPath locates the config file for env.
func FindConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func nonBlank(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
