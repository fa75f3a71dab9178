package commands

import (
	"context"
	"fmt"

	"github.com/tranvu/roitrack/internal/baseline"
	"github.com/tranvu/roitrack/internal/notify"
	"github.com/tranvu/roitrack/internal/provider/metaquote"
	"github.com/tranvu/roitrack/internal/tracker"
	"github.com/tranvu/roitrack/pkg/config"
	"github.com/tranvu/roitrack/pkg/httputil"
	"github.com/tranvu/roitrack/pkg/logger"
	"github.com/tranvu/roitrack/pkg/redis"
)

// buildStore wires the configured state backend. The returned cleanup
// releases backend resources and is safe to call unconditionally.
func buildStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*baseline.Store, func(), error) {
	switch cfg.State.Backend {
	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, func() {}, fmt.Errorf("state backend: %w", err)
		}
		store := baseline.NewStore(baseline.NewRedisStore(client, cfg.State.RedisKey), log)
		return store, func() { _ = client.Close() }, nil

	default:
		store := baseline.NewStore(baseline.NewFileStore(cfg.State.FilePath), log)
		return store, func() {}, nil
	}
}

// buildRunner wires the full pipeline: provider, state backend,
// notifier, tracker.
func buildRunner(ctx context.Context, cfg *config.Config, log *logger.Logger) (*tracker.Runner, *baseline.Store, func(), error) {
	store, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, cleanup, err
	}

	httpClient := httputil.New(log).WithRateLimit(5)
	prov := metaquote.NewClient(cfg.Provider, httpClient, log)
	notifier := notify.FromConfig(cfg, httputil.New(log).DisableRetry(), log)

	return tracker.New(cfg, prov, store, notifier, log), store, cleanup, nil
}
