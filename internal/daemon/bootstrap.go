// SPDX-License-Identifier: MIT

// Package daemon wires the studioedge components together and owns their lifecycle.
package daemon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ManuGH/studioedge/internal/api"
	"github.com/ManuGH/studioedge/internal/cache"
	"github.com/ManuGH/studioedge/internal/config"
	"github.com/ManuGH/studioedge/internal/health"
	"github.com/ManuGH/studioedge/internal/log"
	"github.com/ManuGH/studioedge/internal/platform/httpx"
	"github.com/ManuGH/studioedge/internal/reports"
	"github.com/ManuGH/studioedge/internal/resilience"
	"github.com/ManuGH/studioedge/internal/telemetry"
	"github.com/ManuGH/studioedge/internal/widget"
)

const memoryCacheSweep = time.Minute

// Options are the inputs of Bootstrap.
type Options struct {
	Config  config.Config
	Holder  *config.Holder // optional; enables hot reload
	Version string
}

// Bootstrap builds every component from opts.Config and returns an App ready to Run.
// Resources opened here are released by the manager's shutdown hooks, or right away
// when Bootstrap fails.
func Bootstrap(ctx context.Context, opts Options) (app *App, err error) {
	cfg := opts.Config
	logger := log.WithComponent("daemon")

	var cleanup []func(context.Context) error
	defer func() {
		if err == nil {
			return
		}
		for i := len(cleanup) - 1; i >= 0; i-- {
			_ = cleanup[i](context.WithoutCancel(ctx))
		}
	}()

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return nil, err
	}

	tp, terr := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: opts.Version,
		ExporterType:   cfg.Telemetry.Protocol,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SampleRate,
	})
	if terr != nil {
		logger.Warn().Err(terr).Str(log.FieldEvent, "telemetry.init_failed").Msg("telemetry initialization failed, continuing without tracing")
	}
	cleanup = append(cleanup, tp.Shutdown)

	hm := health.NewManager(opts.Version)

	profiles, cacheClose := newProfileCache(ctx, cfg.Cache, logger, hm)
	cleanup = append(cleanup, cacheClose)

	var store *reports.Store
	if cfg.Reports.Enabled {
		store, err = reports.Open(ctx, cfg.Reports.Path)
		if err != nil {
			return nil, fmt.Errorf("open report store: %w", err)
		}
		cleanup = append(cleanup, func(context.Context) error { return store.Close() })
		hm.RegisterChecker(health.NewPingChecker("reports", store.Ping, false))
	}

	doc := widget.NewDocument()
	injector := newInjector(cfg, doc)
	if injector.Breakers != nil {
		hm.RegisterChecker(health.NewPingChecker("script_hosts", breakerPing(injector.Breakers), true))
	}
	widgets := widget.NewManager(
		widget.NewRegistry(),
		injector.Inject,
		widget.WithSettleDelay(cfg.Widgets.SettleDelay),
		widget.WithConfigs(cfg.WidgetTable()),
	)

	deps := api.Deps{
		Widgets:  widgets,
		Document: doc,
		Profiles: profiles,
		Health:   hm,
	}
	if store != nil {
		deps.Reports = store
	}
	srv, err := api.New(cfg, deps)
	if err != nil {
		return nil, err
	}
	hm.RegisterChecker(health.NewCountChecker("catalog", "media assets", func() int {
		return len(srv.Catalog().Names())
	}))

	mgr, err := NewManager(Deps{
		Logger:     logger,
		Server:     cfg.Server,
		APIHandler: srv.Handler(),
	})
	if err != nil {
		return nil, err
	}
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("profile_cache", cacheClose)
	if store != nil {
		mgr.RegisterShutdownHook("reports", func(context.Context) error { return store.Close() })
	}

	app = NewApp(logger, mgr, opts.Holder, srv)
	if store != nil {
		app.WithPruning(store, cfg.Reports.Retention, 0)
	}

	logger.Info().
		Str(log.FieldEvent, "bootstrap.complete").
		Str("listen", cfg.Server.ListenAddr).
		Str("cache", cfg.Cache.Backend).
		Bool("reports", store != nil).
		Bool("tracing", cfg.Telemetry.Enabled).
		Strs("checks", hm.Names()).
		Msg("components ready")
	return app, nil
}

// newProfileCache picks the configured backend. An unreachable Redis falls back to
// the in-memory cache and is reported as degraded rather than failing startup.
func newProfileCache(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger, hm *health.Manager) (*cache.Profiles, func(context.Context) error) {
	noop := func(context.Context) error { return nil }
	cacheLogger := log.WithComponent("cache")

	switch cfg.Backend {
	case "none":
		return nil, noop
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, cacheLogger)
		if err == nil {
			hm.RegisterChecker(health.NewPingChecker("profile_cache", rc.HealthCheck, true))
			return cache.NewProfiles(rc, "redis", cfg.TTL, cacheLogger), func(context.Context) error { return rc.Close() }
		}
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "cache.redis_unavailable").
			Msg("redis profile cache unavailable, using in-memory cache")
		hm.RegisterChecker(health.NewPingChecker("profile_cache", func(context.Context) error { return err }, true))
	}

	mc := cache.NewMemoryCache(memoryCacheSweep)
	return cache.NewProfiles(mc, "memory", cfg.TTL, cacheLogger), func(context.Context) error { return mc.Close() }
}

func newInjector(cfg config.Config, doc *widget.Document) *widget.HTTPInjector {
	policy := cfg.ScriptPolicy()
	inj := &widget.HTTPInjector{
		Client: httpx.NewClient(cfg.Widgets.FetchTimeout),
		Doc:    doc,
		Policy: &policy,
	}
	if cfg.Widgets.FetchRate > 0 {
		burst := cfg.Widgets.FetchBurst
		if burst < 1 {
			burst = 1
		}
		inj.Limiter = rate.NewLimiter(rate.Limit(cfg.Widgets.FetchRate), burst)
	}
	if cfg.Widgets.BreakerThreshold > 0 {
		inj.Breakers = resilience.NewHostBreakers(cfg.Widgets.BreakerThreshold, cfg.Widgets.BreakerCooldown)
	}
	return inj
}

// breakerPing fails while any script host breaker is open.
func breakerPing(b *resilience.HostBreakers) func(context.Context) error {
	return func(context.Context) error {
		if open := b.Open(); len(open) > 0 {
			return fmt.Errorf("circuit open for %s", strings.Join(open, ", "))
		}
		return nil
	}
}
