package searchgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbElastic "github.com/kailas-cloud/searchgate/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/searchgate/internal/db/redis"
	usagerepo "github.com/kailas-cloud/searchgate/internal/repository/usage"
	healthuc "github.com/kailas-cloud/searchgate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
	usageuc "github.com/kailas-cloud/searchgate/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultUsageTTL         = 48 * time.Hour
)

// Client is the searchgate SDK entry point.
type Client struct {
	search    *dbElastic.Store
	kv        *dbRedis.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
}

// New creates a Client and waits for Elasticsearch (and Redis, when
// configured) to become ready. ctx bounds the readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.elasticAddrs) == 0 {
		return nil, errors.New("searchgate: elasticsearch address required (use WithElastic)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	search, err := dbElastic.NewStore(dbElastic.Config{
		Addrs:      cfg.elasticAddrs,
		Username:   cfg.username,
		Password:   cfg.password,
		Sniff:      cfg.sniff,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("searchgate: create elasticsearch store: %w", err)
	}
	if err := search.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		search.Close()
		return nil, fmt.Errorf("searchgate: elasticsearch not ready: %w", err)
	}

	var kv *dbRedis.Store
	if cfg.redisAddr != "" {
		kv, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
		})
		if err != nil {
			search.Close()
			return nil, fmt.Errorf("searchgate: create redis store: %w", err)
		}
		if err := kv.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			search.Close()
			kv.Close()
			return nil, fmt.Errorf("searchgate: redis not ready: %w", err)
		}
	}

	return wireClient(search, kv, obs), nil
}

func wireClient(search *dbElastic.Store, kv *dbRedis.Store, obs *observer) *Client {
	// Typed nil pointers must not leak into the interfaces below.
	var (
		counter usageuc.Counter
		kvPing  healthuc.Pinger
	)
	if kv != nil {
		counter = usagerepo.New(kv, defaultUsageTTL)
		kvPing = kv
	}

	usageSvc := usageuc.New(counter, zap.NewNop())
	return &Client{
		search:    search,
		kv:        kv,
		searchSvc: searchuc.New(search, usageSvc, zap.NewNop()),
		healthSvc: healthuc.New(search, kvPing),
		usageSvc:  usageSvc,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.search != nil {
		c.search.Close()
	}
	if c.kv != nil {
		c.kv.Close()
	}
}

// Ping checks Elasticsearch connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.search.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Endpoint returns the search service for an endpoint description.
// The description is validated once here.
func (c *Client) Endpoint(e Endpoint) (*EndpointService, error) {
	pol, err := e.policy()
	if err != nil {
		return nil, err
	}
	return &EndpointService{policy: pol, svc: c.searchSvc, obs: c.obs}, nil
}
