// SPDX-License-Identifier: MIT
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	profilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_capability_profiles_total",
		Help: "Capability profiles computed by recommended media type, quality and source",
	}, []string{"media_type", "quality", "source"}) // source=hints|beacon|cache

	profileRulesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_capability_rule_hits_total",
		Help: "Profiler rules that fired, by rule name",
	}, []string{"rule"})

	mediaSourcesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_media_sources_total",
		Help: "Media sources picked by kind and selection reason",
	}, []string{"kind", "reason"})

	profileCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studioedge_profile_cache_total",
		Help: "Profile cache lookups by backend and outcome",
	}, []string{"backend", "outcome"}) // outcome=hit|miss|error
)

// RecordProfile counts one computed profile.
func RecordProfile(mediaType, quality, source string) {
	profilesTotal.WithLabelValues(
		normalize(mediaType, "unknown", "video", "image", "static"),
		normalize(quality, "unknown", "high", "medium", "low", "none"),
		normalize(source, "unknown", "hints", "beacon", "cache"),
	).Inc()
}

// RecordRuleHits counts every rule name in fired.
func RecordRuleHits(fired []string) {
	for _, name := range fired {
		profileRulesTotal.WithLabelValues(name).Inc()
	}
}

func RecordMediaSource(kind, reason string) {
	mediaSourcesTotal.WithLabelValues(
		normalize(kind, "unknown", "video", "image"),
		normalize(reason, "unknown", "exact_tier", "degraded_tier", "video_disabled", "no_video_candidate"),
	).Inc()
}

func RecordProfileCache(backend, outcome string) {
	profileCacheTotal.WithLabelValues(
		normalize(backend, "unknown", "memory", "redis"),
		normalize(outcome, "unknown", "hit", "miss", "error"),
	).Inc()
}

// normalize lowercases v and maps anything outside allowed to fallback, keeping
// label cardinality bounded.
func normalize(v, fallback string, allowed ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}
