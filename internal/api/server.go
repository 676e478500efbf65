// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api provides the HTTP surface of studioedge: capability profiling, media
// source selection and widget loading.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/studioedge/internal/api/middleware"
	"github.com/ManuGH/studioedge/internal/cache"
	"github.com/ManuGH/studioedge/internal/capability"
	"github.com/ManuGH/studioedge/internal/config"
	"github.com/ManuGH/studioedge/internal/health"
	"github.com/ManuGH/studioedge/internal/media"
	"github.com/ManuGH/studioedge/internal/reports"
	"github.com/ManuGH/studioedge/internal/widget"
)

// ReportStore records beacon outcomes. *reports.Store satisfies it.
type ReportStore interface {
	Record(ctx context.Context, r reports.Report) error
	Summary(ctx context.Context, since time.Time) (reports.Summary, error)
}

// Deps holds the collaborators of the API server. Profiles and Reports are optional.
type Deps struct {
	Widgets  *widget.Manager
	Document *widget.Document
	Profiles *cache.Profiles
	Reports  ReportStore
	Health   *health.Manager
}

// Server represents the HTTP API server.
type Server struct {
	deps    Deps
	catalog atomic.Pointer[media.Catalog]
	router  chi.Router

	beaconLimit   int
	maxSummaryAge time.Duration
	tracing       string
}

// New builds the server and its router from cfg. Changes to the script hosts in later
// configs only take effect on restart, since they shape the CSP.
func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Widgets == nil {
		return nil, errors.New("api: widget manager is required")
	}
	if deps.Health == nil {
		deps.Health = health.NewManager("")
	}

	s := &Server{
		deps:          deps,
		beaconLimit:   cfg.Beacon.RequestsPerMinute,
		maxSummaryAge: cfg.Reports.Retention,
	}
	if cfg.Telemetry.Enabled {
		s.tracing = cfg.Telemetry.ServiceName
	}
	if err := s.ApplyConfig(cfg); err != nil {
		return nil, err
	}

	scriptPolicy := cfg.ScriptPolicy()
	mediaPolicy := cfg.MediaPolicy()
	s.router = s.routes(middleware.StackConfig{
		EnableSecurityHeaders: true,
		CSP:                   middleware.BuildCSP(scriptPolicy.Origins(), mediaPolicy.Origins()),
		AdvertiseClientHints:  true,
		EnableMetrics:         true,
		TracingService:        s.tracing,
		EnableLogging:         true,
	})
	return s, nil
}

// ApplyConfig swaps in the media catalog and widget table of cfg. A config whose
// catalog does not build leaves the previous one in place.
func (s *Server) ApplyConfig(cfg config.Config) error {
	catalog, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("build media catalog: %w", err)
	}
	s.catalog.Store(catalog)
	s.deps.Widgets.SetConfigs(cfg.WidgetTable())
	return nil
}

// Catalog returns the active media catalog.
func (s *Server) Catalog() *media.Catalog {
	return s.catalog.Load()
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(stack middleware.StackConfig) chi.Router {
	r := middleware.NewRouter(stack)

	r.Get("/healthz", s.deps.Health.ServeHealth)
	r.Get("/readyz", s.deps.Health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/probe.js", handleProbeScript)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/capabilities", func(r chi.Router) {
			r.Get("/", s.handleGetCapabilities)
			r.With(middleware.BeaconRateLimit(s.beaconLimit)).Post("/", s.handleBeacon)
			r.Get("/summary", s.handleSummary)
		})
		r.Get("/media/{asset}", s.handleMedia)
		r.Route("/widgets", func(r chi.Router) {
			r.Get("/scripts", s.handleScripts)
			r.Get("/{type}", s.handleGetWidget)
			r.Post("/{type}/load", s.handleLoadWidget)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})
	return r
}

func handleProbeScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(capability.ProbeScript))
}
