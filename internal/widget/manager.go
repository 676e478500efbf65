// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	xglog "github.com/ManuGH/studioedge/internal/log"
	"github.com/ManuGH/studioedge/internal/metrics"
	"github.com/ManuGH/studioedge/internal/telemetry"
)

// DefaultSettleDelay is how long LoadWidget waits after the scripts load before it
// writes markup. The vendor script initialises asynchronously and misses elements
// inserted too early. This is a workaround for that race, not a guarantee.
const DefaultSettleDelay = 150 * time.Millisecond

// Result is the outcome of LoadWidget. It is never an error to the caller: a failed
// load is reported with OK=false so the page can offer a retry.
type Result struct {
	Type    Type     `json:"type"`
	OK      bool     `json:"ok"`
	HTML    string   `json:"html,omitempty"`
	Scripts []string `json:"scripts,omitempty"`
	Err     error    `json:"-"`
}

// Retryable reports whether calling Retry may succeed.
func (r Result) Retryable() bool {
	return !r.OK && !errors.Is(r.Err, ErrUnknownWidget)
}

// Manager loads widgets against a shared Registry.
type Manager struct {
	registry    *Registry
	inject      InjectFunc
	settleDelay time.Duration
	logger      zerolog.Logger

	mu      sync.RWMutex
	configs map[Type]Config
}

type Option func(*Manager)

// WithSettleDelay overrides DefaultSettleDelay. Zero disables the wait.
func WithSettleDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.settleDelay = d
		}
	}
}

func WithConfigs(configs map[Type]Config) Option {
	return func(m *Manager) { m.configs = cloneConfigs(configs) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func NewManager(registry *Registry, inject InjectFunc, opts ...Option) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	m := &Manager{
		registry:    registry,
		inject:      inject,
		settleDelay: DefaultSettleDelay,
		logger:      xglog.WithComponent("widget"),
		configs:     DefaultConfigs(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Registry() *Registry { return m.registry }

// SetConfigs swaps the widget table, e.g. after a config reload.
func (m *Manager) SetConfigs(configs map[Type]Config) {
	c := cloneConfigs(configs)
	m.mu.Lock()
	m.configs = c
	m.mu.Unlock()
}

func (m *Manager) Config(t Type) (Config, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[t]
	return cfg, ok
}

func (m *Manager) CreateWidgetHTML(t Type) (string, error) {
	cfg, ok := m.Config(t)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownWidget, t)
	}
	return CreateWidgetHTML(cfg), nil
}

// LoadWidget loads every script of t concurrently, waits the settle delay and then
// writes the widget markup into c. Scripts already loaded are not fetched again.
func (m *Manager) LoadWidget(ctx context.Context, t Type, c Container) Result {
	cfg, ok := m.Config(t)
	if !ok {
		metrics.RecordWidgetLoad(string(t), "unknown")
		return Result{Type: t, Err: fmt.Errorf("%w: %s", ErrUnknownWidget, t)}
	}

	ctx, span := telemetry.Tracer("studioedge/widget").Start(ctx, "widget.load")
	defer span.End()
	span.SetAttributes(telemetry.ScriptAttributes(string(t), "")...)
	span.SetAttributes(attribute.Int("widget.scripts", len(cfg.Scripts)))

	res := Result{Type: t, Scripts: append([]string(nil), cfg.Scripts...)}
	logger := xglog.WithContext(ctx, m.logger).With().Str(xglog.FieldWidgetType, string(t)).Logger()
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for _, url := range cfg.Scripts {
		g.Go(func() error {
			if err := m.registry.Load(gctx, url, m.inject); err != nil {
				return fmt.Errorf("load script %s: %w", url, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "widget.load_failed").
			Msg("widget scripts failed to load")
		metrics.RecordWidgetLoad(string(t), "failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "script load failed")
		res.Err = err
		return res
	}

	if err := sleepCtx(ctx, m.settleDelay); err != nil {
		metrics.RecordWidgetLoad(string(t), "canceled")
		span.SetStatus(codes.Error, "canceled during settle delay")
		res.Err = err
		return res
	}

	res.HTML = CreateWidgetHTML(cfg)
	if c != nil {
		c.SetHTML(res.HTML)
	}
	res.OK = true
	span.SetAttributes(attribute.Bool(telemetry.ScriptOKKey, true))

	metrics.RecordWidgetLoad(string(t), "loaded")
	logger.Debug().
		Str(xglog.FieldEvent, "widget.loaded").
		Dur(xglog.FieldDuration, time.Since(start)).
		Msg("widget ready")
	return res
}

// Retry re-enters LoadWidget. Scripts that failed before are attempted again.
func (m *Manager) Retry(ctx context.Context, t Type, c Container) Result {
	return m.LoadWidget(ctx, t, c)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cloneConfigs(in map[Type]Config) map[Type]Config {
	out := make(map[Type]Config, len(in))
	for k, v := range in {
		v.Scripts = append([]string(nil), v.Scripts...)
		out[k] = v
	}
	return out
}
