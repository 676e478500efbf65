// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/api/v1/media/{asset}", okHandler)

	before := testutil.CollectAndCount(httpRequestDuration)
	for _, asset := range []string{"hero", "about", "team"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/media/"+asset, nil))
	}

	// One series for the route pattern, not one per asset.
	assert.Equal(t, before+1, testutil.CollectAndCount(httpRequestDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight))
}

func TestMetrics_UnmatchedRoutesShareOneLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/known", okHandler)

	before := testutil.CollectAndCount(httpRequestDuration)
	for _, p := range []string{"/wp-admin", "/.env", "/cgi-bin/x"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.LessOrEqual(t, testutil.CollectAndCount(httpRequestDuration), before+1)
}
