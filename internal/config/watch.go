package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	"github.com/kailas-cloud/searchgate/internal/metrics"
)

// reloadDelay lets editors finish atomic writes before the file is re-read.
var reloadDelay = 150 * time.Millisecond

// PolicyTarget receives reloaded endpoint policies.
type PolicyTarget interface {
	Replace(policies []policy.Policy) error
}

// Reload re-reads path and swaps its endpoints into target.
// On any error target keeps its current policies.
func Reload(path string, hooks policy.Hooks, target PolicyTarget) error {
	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}
	policies, err := cfg.Policies(hooks)
	if err != nil {
		return fmt.Errorf("build policies: %w", err)
	}
	if err := target.Replace(policies); err != nil {
		return fmt.Errorf("replace policies: %w", err)
	}
	return nil
}

// Watch reloads endpoint policies whenever the file at path changes, until
// ctx is done. The parent directory is watched so atomic renames are seen.
func Watch(ctx context.Context, path string, hooks policy.Hooks, target PolicyTarget, logger *zap.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("Watching config file for changes", zap.String("path", abs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(reloadDelay):
			}
			if _, err := os.Stat(abs); err != nil {
				logger.Warn("Config file disappeared, keeping current endpoints", zap.String("path", abs))
				continue
			}

			if err := Reload(abs, hooks, target); err != nil {
				metrics.ConfigReloadsTotal.WithLabelValues("error").Inc()
				logger.Error("Config reload failed, keeping current endpoints",
					zap.String("event", event.Op.String()),
					zap.Error(err),
				)
				continue
			}
			metrics.ConfigReloadsTotal.WithLabelValues("ok").Inc()
			logger.Info("Endpoints reloaded", zap.String("event", event.Op.String()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error", zap.Error(err))
		}
	}
}
