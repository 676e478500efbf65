// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scriptLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_script_loads_total",
		Help: "External script load requests by outcome",
	}, []string{"outcome"}) // outcome=loaded|failed|cached

	loadedScripts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "studioedge_loaded_scripts",
		Help: "Script URLs currently in the loaded set",
	})

	widgetLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_widget_loads_total",
		Help: "Widget mounts by widget type and outcome",
	}, []string{"type", "outcome"}) // outcome=loaded|failed|canceled|unknown
)

func RecordScriptLoad(outcome string) {
	scriptLoadsTotal.WithLabelValues(normalize(outcome, "unknown", "loaded", "failed", "cached")).Inc()
}

func SetLoadedScripts(n int) {
	loadedScripts.Set(float64(n))
}

// RecordWidgetLoad counts one widget mount. Unknown widget types are folded into
// "other" so arbitrary request paths cannot grow the label set.
func RecordWidgetLoad(widgetType, outcome string) {
	widgetLoadsTotal.WithLabelValues(
		normalize(widgetType, "other", "newsletter", "registration"),
		normalize(outcome, "unknown", "loaded", "failed", "canceled", "unknown"),
	).Inc()
}
