package searchgate

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	elasticAddrs []string
	username     string
	password     string
	sniff        bool
	httpClient   *http.Client

	redisAddr     string
	redisPassword string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElastic sets the Elasticsearch node URLs. Required.
func WithElastic(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.elasticAddrs = append(c.elasticAddrs, addrs...)
	})
}

// WithBasicAuth sets Elasticsearch credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithSniff enables cluster node discovery.
func WithSniff() Option {
	return optionFunc(func(c *clientConfig) {
		c.sniff = true
	})
}

// WithHTTPClient sets the HTTP client used for Elasticsearch calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithRedis enables daily usage counters stored in Redis.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddr = addr
		c.redisPassword = password
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
