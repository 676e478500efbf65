// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/studioedge/internal/config"
	"github.com/ManuGH/studioedge/internal/log"
)

// ConfigApplier receives every successfully reloaded config. *api.Server satisfies it.
type ConfigApplier interface {
	ApplyConfig(cfg config.Config) error
}

// Pruner drops reports older than a cutoff. *reports.Store satisfies it.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

const defaultPruneInterval = time.Hour

// App owns the long-lived runtime lifecycle (config watcher, reload wiring, report
// pruning) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	holder       *config.Holder
	applier      ConfigApplier
	pruner       Pruner
	retention    time.Duration
	pruneEvery   time.Duration
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator. holder, applier and pruner may be nil.
func NewApp(logger zerolog.Logger, manager Manager, holder *config.Holder, applier ConfigApplier) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		holder:       holder,
		applier:      applier,
		pruneEvery:   defaultPruneInterval,
		reloadSignal: syscall.SIGHUP,
	}
}

// WithPruning enables the periodic deletion of reports older than retention.
func (a *App) WithPruning(p Pruner, retention, interval time.Duration) *App {
	a.pruner = p
	a.retention = retention
	if interval > 0 {
		a.pruneEvery = interval
	}
	return a
}

// Manager returns the server manager, e.g. to register shutdown hooks.
func (a *App) Manager() Manager { return a.manager }

// Run starts all owned background subsystems and blocks until ctx is cancelled or
// a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// The watcher is best effort: a missing config file must not stop the service.
	if a.holder != nil {
		if err := a.holder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str(log.FieldEvent, "config.watcher_start_failed").Msg("failed to start config watcher")
		}
	}

	if a.holder != nil && a.applier != nil {
		applyCh := make(chan config.Config, 1)
		a.holder.RegisterListener(applyCh)

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case cfg := <-applyCh:
					if err := a.applier.ApplyConfig(cfg); err != nil {
						a.logger.Warn().Err(err).Str(log.FieldEvent, "config.apply_failed").Msg("reloaded config not applied")
						continue
					}
					a.logger.Info().Str(log.FieldEvent, "config.applied").Msg("media catalog and widget table updated")
				}
			}
		})
	}

	if a.holder != nil && a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str(log.FieldEvent, "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")
					if err := a.holder.Reload(ctx); err != nil {
						a.logger.Warn().Err(err).Str(log.FieldEvent, "config.reload_failed").Msg("config reload failed")
					}
				}
			}
		})
	}

	if a.pruner != nil && a.retention > 0 {
		g.Go(func() error {
			a.runPruner(ctx)
			return nil
		})
	}

	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.WithoutCancel(ctx))
		}
		return err
	})

	err := g.Wait()
	if a.holder != nil {
		a.holder.Wait()
	}
	return err
}

// runPruner prunes once at start and then on every tick until ctx ends.
func (a *App) runPruner(ctx context.Context) {
	ticker := time.NewTicker(a.pruneEvery)
	defer ticker.Stop()

	for {
		cutoff := time.Now().Add(-a.retention)
		n, err := a.pruner.Prune(ctx, cutoff)
		switch {
		case err != nil && ctx.Err() == nil:
			a.logger.Warn().Err(err).Str(log.FieldEvent, "reports.prune_failed").Msg("report pruning failed")
		case n > 0:
			a.logger.Info().
				Str(log.FieldEvent, "reports.pruned").
				Int64("deleted", n).
				Time("before", cutoff).
				Msg("pruned old capability reports")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
