// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/studioedge/internal/config"
)

type fakePruner struct {
	calls   atomic.Int32
	mu      sync.Mutex
	cutoffs []time.Time
}

func (f *fakePruner) Prune(_ context.Context, before time.Time) (int64, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.cutoffs = append(f.cutoffs, before)
	f.mu.Unlock()
	return 3, nil
}

type recordingApplier struct {
	got chan config.Config
}

func (r *recordingApplier) ApplyConfig(cfg config.Config) error {
	r.got <- cfg
	return nil
}

func TestApp_RunRequiresManager(t *testing.T) {
	app := NewApp(zerolog.Nop(), nil, nil, nil)
	assert.ErrorIs(t, app.Run(context.Background()), ErrMissingManager)
}

func TestApp_PrunesPeriodically(t *testing.T) {
	m, err := NewManager(testDeps(http.NotFoundHandler()))
	require.NoError(t, err)

	p := &fakePruner{}
	app := NewApp(zerolog.New(io.Discard), m, nil, nil).WithPruning(p, 24*time.Hour, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), p.cutoffs[0], time.Minute)
}

func TestApp_ReloadReachesApplier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studioedge.yaml")
	cfg := config.Default()
	require.NoError(t, config.Write(path, cfg, false))

	holder := config.NewHolder(cfg, config.NewLoader(path))
	applier := &recordingApplier{got: make(chan config.Config, 4)}

	m, err := NewManager(testDeps(http.NotFoundHandler()))
	require.NoError(t, err)
	app := NewApp(zerolog.New(io.Discard), m, holder, applier)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	waitForAddr(t, m)

	next := cfg
	next.Beacon.RequestsPerMinute = 5
	data, err := config.Marshal(next)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	select {
	case got := <-applier.got:
		assert.Equal(t, 5, got.Beacon.RequestsPerMinute)
	case <-time.After(5 * time.Second):
		t.Fatal("reloaded config never reached the applier")
	}

	cancel()
	require.NoError(t, <-done)
}
