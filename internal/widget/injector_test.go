// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ManuGH/studioedge/internal/platform/origin"
	"github.com/ManuGH/studioedge/internal/resilience"
)

func TestHTTPInjector_WithRegistry(t *testing.T) {
	var hits atomic.Int32
	var fail atomic.Bool
	fail.Store(true)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte("window.healcode = {};"))
	}))
	defer srv.Close()

	doc := NewDocument()
	inj := &HTTPInjector{Client: srv.Client(), Doc: doc, Limiter: rate.NewLimiter(rate.Inf, 1)}
	reg := NewRegistry()
	url := srv.URL + "/healcode.js"

	err := reg.Load(context.Background(), url, inj.Inject)
	require.ErrorIs(t, err, ErrScriptStatus)
	assert.Equal(t, StateUnloaded, reg.State(url))

	fail.Store(false)
	require.NoError(t, reg.Load(context.Background(), url, inj.Inject))
	require.NoError(t, reg.Load(context.Background(), url, inj.Inject))

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 2, doc.Count(url))
	assert.Equal(t, `<script src="`+url+`" async></script>`+"\n", doc.HeadHTML())
}

func TestHTTPInjector_LimiterRespectsContext(t *testing.T) {
	lim := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, lim.Allow(), "drain the only token")

	inj := &HTTPInjector{Doc: NewDocument(), Limiter: lim}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := inj.Inject(ctx, "https://widgets.example.test/x.js")
	assert.Error(t, err)
	assert.Equal(t, 0, inj.Doc.Count("https://widgets.example.test/x.js"), "no element before a fetch slot is granted")
}

func TestHTTPInjector_RejectsDisallowedOrigin(t *testing.T) {
	policy := origin.DefaultPolicy("widgets.mindbodyonline.com")
	inj := &HTTPInjector{Doc: NewDocument(), Policy: &policy}

	err := inj.Inject(context.Background(), "https://attacker.test/x.js")
	assert.ErrorIs(t, err, origin.ErrNotAllowed)
	assert.Empty(t, inj.Doc.Scripts())
}

func TestHTTPInjector_BreakerFailsFast(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	inj := &HTTPInjector{
		Client:   srv.Client(),
		Doc:      NewDocument(),
		Breakers: resilience.NewHostBreakers(2, time.Hour),
	}
	url := srv.URL + "/healcode.js"
	ctx := context.Background()

	require.ErrorIs(t, inj.Inject(ctx, url), ErrScriptStatus)
	require.ErrorIs(t, inj.Inject(ctx, url), ErrScriptStatus)

	err := inj.Inject(ctx, url)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 2, inj.Doc.Count(url), "open breaker appends nothing")
	assert.Equal(t, []string{"127.0.0.1"}, inj.Breakers.Open())
}
