// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Host labels come from the script host allowlist, so the label set is bounded by config.
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "studioedge_script_host_breaker_state",
		Help: "Circuit breaker state per script host (0=closed, 1=half-open, 2=open)",
	}, []string{"host"})

	breakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_script_host_breaker_trips_total",
		Help: "Circuit breaker transitions to open per script host",
	}, []string{"host", "reason"}) // reason=threshold_exceeded|half_open_failure
)

func SetBreakerState(host, state string) {
	v := 0.0
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	breakerState.WithLabelValues(host).Set(v)
}

func RecordBreakerTrip(host, reason string) {
	breakerTrips.WithLabelValues(host, normalize(reason, "unknown", "threshold_exceeded", "half_open_failure")).Inc()
}
