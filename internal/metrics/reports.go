// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_report_writes_total",
		Help: "Capability report inserts by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_config_reloads_total",
		Help: "Configuration reload attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

func RecordReportWrite(err error) {
	reportWritesTotal.WithLabelValues(outcomeOf(err)).Inc()
}

func RecordConfigReload(err error) {
	configReloadsTotal.WithLabelValues(outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
