// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/studioedge/internal/config"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("connection refused") }

func TestReady_NoCheckers(t *testing.T) {
	resp := NewManager("v1").Ready(context.Background())
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusHealthy, resp.Status)
}

func TestReady_OptionalFailureDegrades(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(NewPingChecker("reports", ok, false))
	m.RegisterChecker(NewPingChecker("cache", fail, true))

	resp := m.Ready(context.Background())
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["cache"].Error)
}

func TestReady_RequiredFailureIsUnhealthy(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(NewPingChecker("cache", fail, true))
	m.RegisterChecker(NewCountChecker("catalog", "media assets", func() int { return 0 }))

	resp := m.Ready(context.Background())
	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, "no media assets loaded", resp.Checks["catalog"].Message)
}

func TestPingChecker_Unconfigured(t *testing.T) {
	res := NewPingChecker("reports", nil, false).Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
}

func TestHealth_VerboseOnly(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(NewPingChecker("reports", fail, false))

	assert.Equal(t, StatusHealthy, m.Health(context.Background(), false).Status)
	verbose := m.Health(context.Background(), true)
	assert.Equal(t, StatusUnhealthy, verbose.Status)
	assert.Contains(t, verbose.Checks, "reports")
}

func TestServeReady_StatusCodes(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(NewPingChecker("reports", fail, false))

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Ready)

	rec = httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestNames(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(NewPingChecker("reports", ok, false))
	m.RegisterChecker(NewPingChecker("cache", ok, true))
	assert.Equal(t, []string{"cache", "reports"}, m.Names())
}

func TestPerformStartupChecks_CreatesReportDir(t *testing.T) {
	cfg := config.Default()
	cfg.Reports.Path = filepath.Join(t.TempDir(), "data", "reports.db")

	require.NoError(t, PerformStartupChecks(context.Background(), cfg))
	info, err := os.Stat(filepath.Dir(cfg.Reports.Path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPerformStartupChecks_ReportPathUnderFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	cfg := config.Default()
	cfg.Reports.Path = filepath.Join(file, "reports.db")
	assert.Error(t, PerformStartupChecks(context.Background(), cfg))
}
