// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package widget loads third-party booking widgets: it fetches each widget's
// scripts at most once per registry and emits the widget's embed markup.
package widget

import (
	"errors"
	"strings"
)

type Type string

const (
	TypeNewsletter   Type = "newsletter"
	TypeRegistration Type = "registration"
)

// HealcodeScriptURL is the vendor loader every healcode widget depends on.
const HealcodeScriptURL = "https://widgets.mindbodyonline.com/javascripts/healcode.js"

var ErrUnknownWidget = errors.New("unknown widget type")

// Config is the static description of one embeddable widget.
type Config struct {
	Type     Type     `json:"type" yaml:"type"`
	WidgetID string   `json:"widgetId" yaml:"widgetId"`
	DataType string   `json:"dataType" yaml:"dataType"`
	Partner  string   `json:"partner,omitempty" yaml:"partner,omitempty"`
	Version  string   `json:"version,omitempty" yaml:"version,omitempty"`
	Scripts  []string `json:"scripts" yaml:"scripts"`
}

// DefaultConfigs returns a fresh copy of the built-in widget table.
func DefaultConfigs() map[Type]Config {
	return map[Type]Config{
		TypeNewsletter: {
			Type:     TypeNewsletter,
			WidgetID: "ec59331b5f7",
			DataType: "prospects",
			Partner:  "object",
			Version:  "0",
			Scripts:  []string{HealcodeScriptURL},
		},
		TypeRegistration: {
			Type:     TypeRegistration,
			WidgetID: "ec161013b5f7",
			DataType: "registrations",
			Partner:  "object",
			Version:  "0",
			Scripts:  []string{HealcodeScriptURL},
		},
	}
}

// ParseType normalises a widget type name from a URL or config key.
func ParseType(s string) Type {
	return Type(strings.ToLower(strings.TrimSpace(s)))
}
