// SPDX-License-Identifier: MIT
package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, gauge.Write(metric))
	return metric.GetGauge().GetValue()
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, counterVec.WithLabelValues(labels...).Write(metric))
	return metric.GetCounter().GetValue()
}

func TestRecordProfile_NormalizesLabels(t *testing.T) {
	tests := []struct {
		name                     string
		mediaType, quality, src  string
		wantType, wantQ, wantSrc string
	}{
		{"known values", "video", "high", "hints", "video", "high", "hints"},
		{"case and spaces", " IMAGE ", "None", "Beacon", "image", "none", "beacon"},
		{"unmapped", "hologram", "ultra", "carrier-pigeon", "unknown", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := getCounterVecValue(t, profilesTotal, tt.wantType, tt.wantQ, tt.wantSrc)
			RecordProfile(tt.mediaType, tt.quality, tt.src)
			assert.Equal(t, before+1, getCounterVecValue(t, profilesTotal, tt.wantType, tt.wantQ, tt.wantSrc))
		})
	}
}

func TestRecordRuleHits(t *testing.T) {
	before := getCounterVecValue(t, profileRulesTotal, "save_data")
	RecordRuleHits([]string{"save_data", "save_data"})
	assert.Equal(t, before+2, getCounterVecValue(t, profileRulesTotal, "save_data"))
}

func TestRecordMediaSource(t *testing.T) {
	before := getCounterVecValue(t, mediaSourcesTotal, "video", "degraded_tier")
	RecordMediaSource("video", "degraded_tier")
	assert.Equal(t, before+1, getCounterVecValue(t, mediaSourcesTotal, "video", "degraded_tier"))
}

func TestRecordProfileCache(t *testing.T) {
	before := getCounterVecValue(t, profileCacheTotal, "redis", "error")
	RecordProfileCache("redis", "error")
	assert.Equal(t, before+1, getCounterVecValue(t, profileCacheTotal, "redis", "error"))
}

func TestScriptLoadMetrics(t *testing.T) {
	before := getCounterVecValue(t, scriptLoadsTotal, "cached")
	RecordScriptLoad("cached")
	assert.Equal(t, before+1, getCounterVecValue(t, scriptLoadsTotal, "cached"))

	SetLoadedScripts(3)
	assert.Equal(t, float64(3), getGaugeValue(t, loadedScripts))
	SetLoadedScripts(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(loadedScripts))
}

func TestRecordWidgetLoad_FoldsUnknownTypes(t *testing.T) {
	before := getCounterVecValue(t, widgetLoadsTotal, "other", "unknown")
	RecordWidgetLoad("../../etc/passwd", "unknown")
	assert.Equal(t, before+1, getCounterVecValue(t, widgetLoadsTotal, "other", "unknown"))

	before = getCounterVecValue(t, widgetLoadsTotal, "newsletter", "loaded")
	RecordWidgetLoad("newsletter", "loaded")
	assert.Equal(t, before+1, getCounterVecValue(t, widgetLoadsTotal, "newsletter", "loaded"))
}

func TestOutcomeCounters(t *testing.T) {
	before := getCounterVecValue(t, reportWritesTotal, "failure")
	RecordReportWrite(errors.New("disk full"))
	assert.Equal(t, before+1, getCounterVecValue(t, reportWritesTotal, "failure"))

	before = getCounterVecValue(t, configReloadsTotal, "success")
	RecordConfigReload(nil)
	assert.Equal(t, before+1, getCounterVecValue(t, configReloadsTotal, "success"))
}
