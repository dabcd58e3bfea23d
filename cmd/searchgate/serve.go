package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/config"
	dbElastic "github.com/kailas-cloud/searchgate/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/searchgate/internal/db/redis"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	logpkg "github.com/kailas-cloud/searchgate/internal/logger"
	"github.com/kailas-cloud/searchgate/internal/metrics"
	usagerepo "github.com/kailas-cloud/searchgate/internal/repository/usage"
	chiTransport "github.com/kailas-cloud/searchgate/internal/transport/chi"
	healthuc "github.com/kailas-cloud/searchgate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
	usageuc "github.com/kailas-cloud/searchgate/internal/usecase/usage"
	"github.com/kailas-cloud/searchgate/internal/version"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload endpoints when the config file changes",
				Value: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("env"), configPath(c), c.Bool("watch"))
		},
	}
}

func serve(ctx context.Context, env, cfgPath string, watch bool) error {
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchgate API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("config", cfgPath),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("elastic_addrs", cfg.Elastic.Addrs),
		zap.Bool("usage_counters", cfg.Redis.Enabled()),
	)

	hooks := policy.BuiltinHooks()
	policies, err := cfg.Policies(hooks)
	if err != nil {
		return fmt.Errorf("invalid endpoints: %w", err)
	}
	registry, err := policy.NewRegistry(policies...)
	if err != nil {
		return fmt.Errorf("invalid endpoints: %w", err)
	}
	logger.Info("Endpoints loaded", zap.Int("count", len(policies)))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	searchStore, err := dbElastic.NewStore(dbElastic.Config{
		Addrs:       cfg.Elastic.Addrs,
		Username:    cfg.Elastic.Username,
		Password:    cfg.Elastic.Password,
		Sniff:       cfg.Elastic.Sniff,
		Healthcheck: cfg.Elastic.Healthcheck,
		HTTPClient:  &http.Client{Timeout: time.Duration(cfg.Elastic.TimeoutSec) * time.Second},
	})
	if err != nil {
		return fmt.Errorf("failed to create elasticsearch store: %w", err)
	}
	defer searchStore.Close()

	if err := searchStore.WaitForReady(ctx, time.Duration(cfg.Elastic.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("elasticsearch not ready: %w", err)
	}
	logger.Info("Connected to elasticsearch")

	// Pass nil interfaces (not typed nil pointers) when redis is not configured.
	var (
		counter usageuc.Counter
		kv      healthuc.Pinger
	)
	if cfg.Redis.Enabled() {
		kvStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis store: %w", err)
		}
		defer kvStore.Close()

		if err := kvStore.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to redis")
		counter = usagerepo.New(kvStore, time.Duration(cfg.Search.UsageTTLHours)*time.Hour)
		kv = kvStore
	}

	metrics.RegisterSearchMetrics()

	usageSvc := usageuc.New(counter, logger)
	searchSvc := searchuc.New(searchStore, usageSvc, logger)
	healthSvc := healthuc.New(searchStore, kv)

	server := chiTransport.NewServer(registry, searchSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})

	if watch {
		go func() {
			if err := config.Watch(ctx, cfgPath, hooks, registry, logger); err != nil {
				logger.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
