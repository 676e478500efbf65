// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/studioedge/internal/log"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envSource reads typed values and logs where each one came from. Invalid values
// fall back to the default with a warning instead of failing startup.
type envSource struct {
	lookup LookupFunc
	logger zerolog.Logger
}

func newEnvSource(lookup LookupFunc) envSource {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return envSource{lookup: lookup, logger: log.WithComponent("config")}
}

// ParseString reads key from the process environment or returns defaultValue.
func ParseString(key, defaultValue string) string {
	return newEnvSource(nil).String(key, defaultValue)
}

func ParseInt(key string, defaultValue int) int {
	return newEnvSource(nil).Int(key, defaultValue)
}

// ParseDuration reads a Go duration ("150ms", "24h").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return newEnvSource(nil).Duration(key, defaultValue)
}

// ParseBool accepts true/false, 1/0 and yes/no, case-insensitively.
func ParseBool(key string, defaultValue bool) bool {
	return newEnvSource(nil).Bool(key, defaultValue)
}

func ParseFloat(key string, defaultValue float64) float64 {
	return newEnvSource(nil).Float(key, defaultValue)
}

func (e envSource) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	if strings.TrimSpace(v) == "" {
		e.logger.Debug().
			Str("key", key).
			Str("source", "default").
			Msg("using default value (environment variable is empty)")
		return "", false
	}
	return v, true
}

func sensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "password") || strings.Contains(k, "token") || strings.Contains(k, "secret")
}

func (e envSource) String(key, defaultValue string) string {
	v, ok := e.raw(key)
	if !ok {
		return defaultValue
	}
	ev := e.logger.Debug().Str("key", key).Str("source", "environment")
	if sensitive(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Str("value", v)
	}
	ev.Msg("using environment variable")
	return v
}

func (e envSource) Int(key string, defaultValue int) int {
	v, ok := e.raw(key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		e.logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	e.logger.Debug().Str("key", key).Int("value", i).Str("source", "environment").Msg("using environment variable")
	return i
}

func (e envSource) Duration(key string, defaultValue time.Duration) time.Duration {
	v, ok := e.raw(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		e.logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", defaultValue).
			Msg("invalid duration in environment variable, using default")
		return defaultValue
	}
	e.logger.Debug().Str("key", key).Dur("value", d).Str("source", "environment").Msg("using environment variable")
	return d
}

func (e envSource) Bool(key string, defaultValue bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		e.logger.Warn().
			Str("key", key).
			Str("value", v).
			Bool("default", defaultValue).
			Msg("invalid boolean in environment variable, using default")
		return defaultValue
	}
}

func (e envSource) Float(key string, defaultValue float64) float64 {
	v, ok := e.raw(key)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		e.logger.Warn().
			Str("key", key).
			Str("value", v).
			Float64("default", defaultValue).
			Msg("invalid float in environment variable, using default")
		return defaultValue
	}
	e.logger.Debug().Str("key", key).Float64("value", f).Str("source", "environment").Msg("using environment variable")
	return f
}

// CSV splits a comma separated override; an unset variable keeps defaultValue.
func (e envSource) CSV(key string, defaultValue []string) []string {
	v, ok := e.raw(key)
	if !ok {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	e.logger.Debug().Str("key", key).Strs("value", out).Str("source", "environment").Msg("using environment variable")
	return out
}

// Environment variable names.
const (
	EnvConfigFile       = "STUDIOEDGE_CONFIG"
	EnvListenAddr       = "STUDIOEDGE_LISTEN_ADDR"
	EnvLogLevel         = "STUDIOEDGE_LOG_LEVEL"
	EnvSettleDelay      = "STUDIOEDGE_SETTLE_DELAY"
	EnvFetchTimeout     = "STUDIOEDGE_FETCH_TIMEOUT"
	EnvFetchRate        = "STUDIOEDGE_FETCH_RATE"
	EnvFetchBurst       = "STUDIOEDGE_FETCH_BURST"
	EnvScriptHosts      = "STUDIOEDGE_SCRIPT_HOSTS"
	EnvMediaHosts       = "STUDIOEDGE_MEDIA_HOSTS"
	EnvBreakerThreshold = "STUDIOEDGE_SCRIPT_BREAKER_THRESHOLD"
	EnvBreakerCooldown  = "STUDIOEDGE_SCRIPT_BREAKER_COOLDOWN"
	EnvCacheBackend     = "STUDIOEDGE_CACHE_BACKEND"
	EnvCacheTTL         = "STUDIOEDGE_CACHE_TTL"
	EnvRedisAddr        = "STUDIOEDGE_REDIS_ADDR"
	EnvRedisPassword    = "STUDIOEDGE_REDIS_PASSWORD"
	EnvRedisDB          = "STUDIOEDGE_REDIS_DB"
	EnvReportsEnabled   = "STUDIOEDGE_REPORTS_ENABLED"
	EnvReportsPath      = "STUDIOEDGE_REPORTS_PATH"
	EnvReportsRetention = "STUDIOEDGE_REPORTS_RETENTION"
	EnvBeaconRate       = "STUDIOEDGE_BEACON_RATE_LIMIT"
	EnvTracingEnabled   = "STUDIOEDGE_TRACING_ENABLED"
	EnvOTLPProtocol     = "STUDIOEDGE_OTLP_PROTOCOL"
	EnvOTLPEndpoint     = "STUDIOEDGE_OTLP_ENDPOINT"
	EnvTraceSampleRate  = "STUDIOEDGE_TRACE_SAMPLE_RATE"
)

// applyEnv overlays environment variables on cfg.
func applyEnv(cfg *Config, e envSource) {
	cfg.Server.ListenAddr = e.String(EnvListenAddr, cfg.Server.ListenAddr)
	cfg.Logging.Level = e.String(EnvLogLevel, cfg.Logging.Level)

	cfg.Widgets.SettleDelay = e.Duration(EnvSettleDelay, cfg.Widgets.SettleDelay)
	cfg.Widgets.FetchTimeout = e.Duration(EnvFetchTimeout, cfg.Widgets.FetchTimeout)
	cfg.Widgets.FetchRate = e.Float(EnvFetchRate, cfg.Widgets.FetchRate)
	cfg.Widgets.FetchBurst = e.Int(EnvFetchBurst, cfg.Widgets.FetchBurst)
	cfg.Widgets.ScriptHosts = e.CSV(EnvScriptHosts, cfg.Widgets.ScriptHosts)
	cfg.Widgets.BreakerThreshold = e.Int(EnvBreakerThreshold, cfg.Widgets.BreakerThreshold)
	cfg.Widgets.BreakerCooldown = e.Duration(EnvBreakerCooldown, cfg.Widgets.BreakerCooldown)
	cfg.Media.AllowedHosts = e.CSV(EnvMediaHosts, cfg.Media.AllowedHosts)

	cfg.Cache.Backend = e.String(EnvCacheBackend, cfg.Cache.Backend)
	cfg.Cache.TTL = e.Duration(EnvCacheTTL, cfg.Cache.TTL)
	cfg.Cache.Redis.Addr = e.String(EnvRedisAddr, cfg.Cache.Redis.Addr)
	cfg.Cache.Redis.Password = e.String(EnvRedisPassword, cfg.Cache.Redis.Password)
	cfg.Cache.Redis.DB = e.Int(EnvRedisDB, cfg.Cache.Redis.DB)

	cfg.Reports.Enabled = e.Bool(EnvReportsEnabled, cfg.Reports.Enabled)
	cfg.Reports.Path = e.String(EnvReportsPath, cfg.Reports.Path)
	cfg.Reports.Retention = e.Duration(EnvReportsRetention, cfg.Reports.Retention)

	cfg.Beacon.RequestsPerMinute = e.Int(EnvBeaconRate, cfg.Beacon.RequestsPerMinute)

	cfg.Telemetry.Enabled = e.Bool(EnvTracingEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Protocol = e.String(EnvOTLPProtocol, cfg.Telemetry.Protocol)
	cfg.Telemetry.Endpoint = e.String(EnvOTLPEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SampleRate = e.Float(EnvTraceSampleRate, cfg.Telemetry.SampleRate)
}
