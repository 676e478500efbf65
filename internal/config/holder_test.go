// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHolder_ReloadSwapsAndNotifies(t *testing.T) {
	path := writeFile(t, "widgets:\n  settleDelay: 100ms\n")
	loader := &Loader{Path: path, LookupEnv: envMap(nil)}
	initial, err := loader.LoadValidated()
	require.NoError(t, err)

	h := NewHolder(initial, loader)
	ch := make(chan Config, 1)
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("widgets:\n  settleDelay: 300ms\n"), 0o600))
	require.NoError(t, h.Reload(context.Background()))

	assert.Equal(t, 300*time.Millisecond, h.Get().Widgets.SettleDelay)
	select {
	case got := <-ch:
		assert.Equal(t, 300*time.Millisecond, got.Widgets.SettleDelay)
	default:
		t.Fatal("listener not notified")
	}
}

func TestHolder_InvalidReloadKeepsPrevious(t *testing.T) {
	path := writeFile(t, "widgets:\n  settleDelay: 100ms\n")
	loader := &Loader{Path: path, LookupEnv: envMap(nil)}
	initial, err := loader.LoadValidated()
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	require.NoError(t, os.WriteFile(path, []byte("widgets:\n  settleDelay: 1h\n"), 0o600))
	assert.Error(t, h.Reload(context.Background()))
	assert.Equal(t, 100*time.Millisecond, h.Get().Widgets.SettleDelay)

	require.NoError(t, os.WriteFile(path, []byte("cache: [broken"), 0o600))
	assert.Error(t, h.Reload(context.Background()))
	assert.Equal(t, 100*time.Millisecond, h.Get().Widgets.SettleDelay)
}

func TestHolder_FullListenerDoesNotBlock(t *testing.T) {
	loader := &Loader{LookupEnv: envMap(nil)}
	h := NewHolder(Default(), loader)
	ch := make(chan Config) // unbuffered, nobody reading
	h.RegisterListener(ch)

	done := make(chan struct{})
	go func() {
		_ = h.Reload(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reload blocked on listener")
	}
}

func TestHolder_WatcherReloadsOnAtomicReplace(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "studioedge.yaml")
	require.NoError(t, Write(path, Default(), false))

	loader := &Loader{Path: path, LookupEnv: envMap(nil)}
	initial, err := loader.LoadValidated()
	require.NoError(t, err)

	h := NewHolder(initial, loader)
	h.debounce = 20 * time.Millisecond
	ch := make(chan Config, 4)
	h.RegisterListener(ch)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.StartWatcher(ctx))

	next := Default()
	next.Widgets.SettleDelay = 42 * time.Millisecond
	require.NoError(t, Write(path, next, true))

	select {
	case got := <-ch:
		assert.Equal(t, 42*time.Millisecond, got.Widgets.SettleDelay)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}

	cancel()
	h.Wait()
}

func TestHolder_WatcherDisabledWithoutFile(t *testing.T) {
	h := NewHolder(Default(), &Loader{})
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Wait()
}
