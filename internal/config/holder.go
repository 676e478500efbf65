// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/studioedge/internal/log"
	"github.com/ManuGH/studioedge/internal/metrics"
)

const defaultDebounce = 300 * time.Millisecond

// Holder owns the live configuration. Reload swaps it only when the new file loads
// and validates; otherwise the previous configuration stays in effect.
type Holder struct {
	mu      sync.RWMutex
	current Config
	loader  *Loader
	logger  zerolog.Logger

	listenMu  sync.RWMutex
	listeners []chan<- Config

	debounce time.Duration
	watcher  *fsnotify.Watcher
	wg       sync.WaitGroup
}

func NewHolder(initial Config, loader *Loader) *Holder {
	return &Holder{
		current:  initial,
		loader:   loader,
		logger:   xglog.WithComponent("config"),
		debounce: defaultDebounce,
	}
}

func (h *Holder) Get() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *Holder) Reload(_ context.Context) (err error) {
	defer func() { metrics.RecordConfigReload(err) }()

	next, err := h.loader.LoadValidated()
	if err != nil {
		h.logger.Error().Err(err).Str(xglog.FieldEvent, "config.reload_failed").Msg("keeping previous configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	prev := h.current
	h.current = next
	h.mu.Unlock()

	h.logChanges(prev, next)
	h.notify(next)
	h.logger.Info().Str(xglog.FieldEvent, "config.reloaded").Msg("configuration reloaded")
	return nil
}

// RegisterListener subscribes ch to successful reloads. Sends never block: a listener
// whose buffer is full misses that reload.
func (h *Holder) RegisterListener(ch chan<- Config) {
	h.listenMu.Lock()
	h.listeners = append(h.listeners, ch)
	h.listenMu.Unlock()
}

func (h *Holder) notify(cfg Config) {
	h.listenMu.RLock()
	defer h.listenMu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- cfg:
		default:
			h.logger.Warn().Str(xglog.FieldEvent, "config.listener_skip").Msg("listener channel full, reload not delivered")
		}
	}
}

// StartWatcher reloads on changes to the config file until ctx ends. The parent
// directory is watched so editors that replace the file by rename are seen too.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.loader == nil || h.loader.Path == "" {
		h.logger.Info().Str(xglog.FieldEvent, "config.watcher_disabled").Msg("no config file, watcher disabled")
		return nil
	}
	path, err := filepath.Abs(h.loader.Path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	h.watcher = w

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.watchLoop(ctx, w, path)
	}()
	h.logger.Info().Str(xglog.FieldEvent, "config.watcher_started").Str("path", path).Msg("watching config file")
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string) {
	defer func() { _ = w.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(h.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			_ = h.Reload(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Str(xglog.FieldEvent, "config.watcher_error").Msg("config watcher error")
		}
	}
}

// Wait blocks until the watcher goroutine has exited after its context ended.
func (h *Holder) Wait() {
	h.wg.Wait()
}

func (h *Holder) logChanges(prev, next Config) {
	if len(prev.Media.Assets) != len(next.Media.Assets) {
		h.logger.Info().Int("old", len(prev.Media.Assets)).Int("new", len(next.Media.Assets)).Msg("config changed: media assets")
	}
	if len(prev.Widgets.Types) != len(next.Widgets.Types) {
		h.logger.Info().Int("old", len(prev.Widgets.Types)).Int("new", len(next.Widgets.Types)).Msg("config changed: widget types")
	}
	if prev.Widgets.SettleDelay != next.Widgets.SettleDelay {
		h.logger.Info().Dur("old", prev.Widgets.SettleDelay).Dur("new", next.Widgets.SettleDelay).Msg("config changed: settle delay")
	}
	if prev.Server.ListenAddr != next.Server.ListenAddr {
		h.logger.Warn().Str("old", prev.Server.ListenAddr).Str("new", next.Server.ListenAddr).Msg("listen address change needs a restart")
	}
}
