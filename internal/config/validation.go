// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/studioedge/internal/capability"
	"github.com/ManuGH/studioedge/internal/validate"
)

// Validate checks cfg and returns every problem found.
func Validate(cfg Config) error {
	v := validate.New()

	v.ListenAddr("server.listenAddr", cfg.Server.ListenAddr)
	v.DurationRange("server.readHeaderTimeout", cfg.Server.ReadHeaderTimeout, time.Second, time.Minute)
	v.DurationRange("server.shutdownTimeout", cfg.Server.ShutdownTimeout, time.Second, 5*time.Minute)
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level)); err != nil {
		v.AddError("logging.level", err.Error(), cfg.Logging.Level)
	}

	validateMedia(v, cfg)
	validateWidgets(v, cfg)

	v.OneOf("cache.backend", cfg.Cache.Backend, "memory", "redis", "none")
	if cfg.Cache.Backend != "none" {
		v.DurationRange("cache.ttl", cfg.Cache.TTL, time.Second, 7*24*time.Hour)
	}
	if cfg.Cache.Backend == "redis" {
		v.NotEmpty("cache.redis.addr", cfg.Cache.Redis.Addr)
		v.Range("cache.redis.db", cfg.Cache.Redis.DB, 0, 15)
	}

	if cfg.Reports.Enabled {
		v.NotEmpty("reports.path", cfg.Reports.Path)
		if cfg.Reports.Retention < 0 {
			v.AddError("reports.retention", "must not be negative", cfg.Reports.Retention)
		}
	}

	v.Range("beacon.requestsPerMinute", cfg.Beacon.RequestsPerMinute, 1, 10000)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.protocol", cfg.Telemetry.Protocol, "grpc", "http")
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.NotEmpty("telemetry.serviceName", cfg.Telemetry.ServiceName)
		v.FloatRange("telemetry.sampleRate", cfg.Telemetry.SampleRate, 0, 1)
	}

	return v.Err()
}

func validateMedia(v *validate.Validator, cfg Config) {
	policy := cfg.MediaPolicy()
	checkRef := func(field, ref string) {
		v.MediaRef(field, ref)
		if strings.HasPrefix(ref, "/") || len(cfg.Media.AllowedHosts) == 0 {
			return
		}
		if _, err := policy.Check(ref); err != nil {
			v.AddError(field, err.Error(), ref)
		}
	}

	seen := make(map[string]bool, len(cfg.Media.Assets))
	for i, a := range cfg.Media.Assets {
		field := fmt.Sprintf("media.assets[%d]", i)
		v.NotEmpty(field+".name", a.Name)
		if seen[a.Name] {
			v.AddError(field+".name", "duplicate asset name", a.Name)
		}
		seen[a.Name] = true

		checkRef(field+".fallbackImage", a.FallbackImage)
		if a.Poster != "" {
			checkRef(field+".poster", a.Poster)
		}
		for tier, url := range a.Video {
			if capability.ParseQuality(tier) == capability.QualityNone {
				v.AddError(field+".video", "tier must be high, medium or low", tier)
				continue
			}
			checkRef(field+".video."+tier, url)
		}
	}
}

func validateWidgets(v *validate.Validator, cfg Config) {
	w := cfg.Widgets
	v.DurationRange("widgets.settleDelay", w.SettleDelay, 0, 5*time.Second)
	v.DurationRange("widgets.fetchTimeout", w.FetchTimeout, 100*time.Millisecond, time.Minute)
	if w.FetchRate <= 0 {
		v.AddError("widgets.fetchRate", "must be positive", w.FetchRate)
	}
	v.Range("widgets.fetchBurst", w.FetchBurst, 1, 100)
	v.Range("widgets.breakerThreshold", w.BreakerThreshold, 0, 100)
	if w.BreakerThreshold > 0 {
		v.DurationRange("widgets.breakerCooldown", w.BreakerCooldown, time.Second, time.Hour)
	}

	policy := cfg.ScriptPolicy()
	if err := policy.Validate(); err != nil {
		v.AddError("widgets.scriptHosts", err.Error(), w.ScriptHosts)
	}

	seen := make(map[string]bool, len(w.Types))
	for i, t := range w.Types {
		field := fmt.Sprintf("widgets.types[%d]", i)
		name := strings.ToLower(strings.TrimSpace(t.Type))
		v.NotEmpty(field+".type", name)
		if seen[name] {
			v.AddError(field+".type", "duplicate widget type", t.Type)
		}
		seen[name] = true
		v.NotEmpty(field+".widgetId", t.WidgetID)
		v.NotEmpty(field+".dataType", t.DataType)
		if len(t.Scripts) == 0 {
			v.AddError(field+".scripts", "at least one script is required", t.Type)
		}
		for j, s := range t.Scripts {
			if _, err := policy.Check(s); err != nil {
				v.AddError(fmt.Sprintf("%s.scripts[%d]", field, j), err.Error(), s)
			}
		}
	}
}
