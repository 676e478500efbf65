// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// CurrentVersion is the config file schema version this build writes.
const CurrentVersion = 1

// Config is the full service configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Media     MediaConfig     `yaml:"media"`
	Widgets   WidgetsConfig   `yaml:"widgets"`
	Cache     CacheConfig     `yaml:"cache"`
	Reports   ReportsConfig   `yaml:"reports"`
	Beacon    BeaconConfig    `yaml:"beacon"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	ListenAddr        string        `yaml:"listenAddr"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MediaConfig lists adaptive assets. AllowedHosts restricts absolute asset URLs;
// site-relative paths are always accepted.
type MediaConfig struct {
	AllowedHosts []string      `yaml:"allowedHosts,omitempty"`
	Assets       []AssetConfig `yaml:"assets"`
}

// AssetConfig is one media asset. Video maps a tier name (high, medium, low) to a URL.
type AssetConfig struct {
	Name          string            `yaml:"name"`
	Video         map[string]string `yaml:"video,omitempty"`
	FallbackImage string            `yaml:"fallbackImage"`
	Poster        string            `yaml:"poster,omitempty"`
	Alt           string            `yaml:"alt,omitempty"`
}

type WidgetsConfig struct {
	SettleDelay  time.Duration  `yaml:"settleDelay"`
	FetchTimeout time.Duration  `yaml:"fetchTimeout"`
	FetchRate    float64        `yaml:"fetchRate"` // outbound script fetches per second
	FetchBurst   int            `yaml:"fetchBurst"`
	ScriptHosts  []string       `yaml:"scriptHosts"`
	Types        []WidgetConfig `yaml:"types"`
	// BreakerThreshold consecutive failures open a script host's breaker for
	// BreakerCooldown. Zero disables the breakers.
	BreakerThreshold int           `yaml:"breakerThreshold"`
	BreakerCooldown  time.Duration `yaml:"breakerCooldown"`
}

type WidgetConfig struct {
	Type     string   `yaml:"type"`
	WidgetID string   `yaml:"widgetId"`
	DataType string   `yaml:"dataType"`
	Partner  string   `yaml:"partner,omitempty"`
	Version  string   `yaml:"version,omitempty"`
	Scripts  []string `yaml:"scripts"`
}

// CacheConfig selects the profile cache backend: memory, redis or none.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

type ReportsConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Path      string        `yaml:"path"`
	Retention time.Duration `yaml:"retention"`
}

// BeaconConfig limits probe beacon posts per client IP.
type BeaconConfig struct {
	RequestsPerMinute int `yaml:"requestsPerMinute"`
}

type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"serviceName"`
	Protocol    string  `yaml:"protocol"` // grpc or http
	Endpoint    string  `yaml:"endpoint"`
	SampleRate  float64 `yaml:"sampleRate"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Version: CurrentVersion,
		Server: ServerConfig{
			ListenAddr:        ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
		Media: MediaConfig{
			Assets: []AssetConfig{
				{
					Name: "hero",
					Video: map[string]string{
						"high":   "/media/hero-1080.mp4",
						"medium": "/media/hero-720.mp4",
						"low":    "/media/hero-480.mp4",
					},
					FallbackImage: "/media/hero.jpg",
					Poster:        "/media/hero-poster.jpg",
					Alt:           "Morning class in the main studio",
				},
			},
		},
		Widgets: WidgetsConfig{
			SettleDelay:  150 * time.Millisecond,
			FetchTimeout: 10 * time.Second,
			FetchRate:    5,
			FetchBurst:   5,
			ScriptHosts:  []string{"widgets.mindbodyonline.com"},
			Types:        defaultWidgets(),

			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     30 * time.Minute,
			Redis:   RedisConfig{Addr: "localhost:6379", KeyPrefix: "studioedge:"},
		},
		Reports: ReportsConfig{
			Enabled:   true,
			Path:      "data/reports.db",
			Retention: 30 * 24 * time.Hour,
		},
		Beacon: BeaconConfig{RequestsPerMinute: 60},
		Telemetry: TelemetryConfig{
			ServiceName: "studioedge",
			Protocol:    "grpc",
			Endpoint:    "localhost:4317",
			SampleRate:  1.0,
		},
	}
}
