// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"html"
	"strings"
)

// ElementName is the custom element the vendor script upgrades.
const ElementName = "healcode-widget"

// CreateWidgetHTML renders the embed element for cfg. Values are attribute-escaped
// even though they come from static configuration.
func CreateWidgetHTML(cfg Config) string {
	var b strings.Builder
	b.WriteString("<" + ElementName)
	writeAttr(&b, "data-type", cfg.DataType)
	if cfg.Partner != "" {
		writeAttr(&b, "data-widget-partner", cfg.Partner)
	}
	writeAttr(&b, "data-widget-id", cfg.WidgetID)
	if cfg.Version != "" {
		writeAttr(&b, "data-widget-version", cfg.Version)
	}
	b.WriteString("></" + ElementName + ">")
	return b.String()
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}
