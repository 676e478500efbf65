// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"github.com/ManuGH/studioedge/internal/capability"
	"github.com/ManuGH/studioedge/internal/media"
	"github.com/ManuGH/studioedge/internal/platform/origin"
	"github.com/ManuGH/studioedge/internal/widget"
)

func defaultWidgets() []WidgetConfig {
	defaults := widget.DefaultConfigs()
	out := make([]WidgetConfig, 0, len(defaults))
	for _, t := range []widget.Type{widget.TypeNewsletter, widget.TypeRegistration} {
		c := defaults[t]
		out = append(out, WidgetConfig{
			Type:     string(c.Type),
			WidgetID: c.WidgetID,
			DataType: c.DataType,
			Partner:  c.Partner,
			Version:  c.Version,
			Scripts:  append([]string(nil), c.Scripts...),
		})
	}
	return out
}

// Catalog builds the media catalog from the configured assets.
func (c Config) Catalog() (*media.Catalog, error) {
	assets := make([]media.Asset, 0, len(c.Media.Assets))
	for _, a := range c.Media.Assets {
		candidates := make(media.Candidates, len(a.Video))
		for tier, url := range a.Video {
			candidates[capability.Quality(tier)] = url
		}
		assets = append(assets, media.Asset{
			Name:          a.Name,
			Candidates:    candidates,
			FallbackImage: a.FallbackImage,
			Poster:        a.Poster,
			Alt:           a.Alt,
		})
	}
	return media.NewCatalog(assets)
}

// WidgetTable returns the widget configuration keyed by type.
func (c Config) WidgetTable() map[widget.Type]widget.Config {
	out := make(map[widget.Type]widget.Config, len(c.Widgets.Types))
	for _, w := range c.Widgets.Types {
		t := widget.ParseType(w.Type)
		out[t] = widget.Config{
			Type:     t,
			WidgetID: w.WidgetID,
			DataType: w.DataType,
			Partner:  w.Partner,
			Version:  w.Version,
			Scripts:  append([]string(nil), w.Scripts...),
		}
	}
	return out
}

// ScriptPolicy is the origin allowlist for widget scripts.
func (c Config) ScriptPolicy() origin.Policy {
	return origin.DefaultPolicy(c.Widgets.ScriptHosts...)
}

// MediaPolicy is the origin allowlist for absolute media URLs.
func (c Config) MediaPolicy() origin.Policy {
	return origin.DefaultPolicy(c.Media.AllowedHosts...)
}
