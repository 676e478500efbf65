// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const scriptURL = "https://widgets.example.test/loader.js"

func TestRegistry_ConcurrentLoadsShareOneInjection(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reg := NewRegistry()
	inj := newFakeInjector()
	inj.gate = make(chan struct{})
	inj.entered = make(chan string, 1)

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- reg.Load(context.Background(), scriptURL, inj.Inject)
		}()
	}

	<-inj.entered
	assert.Equal(t, StateLoading, reg.State(scriptURL))
	time.Sleep(20 * time.Millisecond)
	close(inj.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inj.callCount(scriptURL))
	assert.Equal(t, 1, inj.doc.Count(scriptURL), "exactly one script element for the URL")
	assert.Equal(t, StateLoaded, reg.State(scriptURL))
}

func TestRegistry_LoadedURLIsNeverReloaded(t *testing.T) {
	reg := NewRegistry()
	inj := newFakeInjector()

	require.NoError(t, reg.Load(context.Background(), scriptURL, inj.Inject))
	require.NoError(t, reg.Load(context.Background(), scriptURL, inj.Inject))
	require.NoError(t, reg.Load(context.Background(), scriptURL, inj.Inject))

	assert.Equal(t, 1, inj.callCount(scriptURL))
	assert.Equal(t, 1, inj.doc.Count(scriptURL))
}

func TestRegistry_FailureDoesNotPoisonURL(t *testing.T) {
	reg := NewRegistry()
	inj := newFakeInjector()
	inj.failNext(scriptURL, 1)

	err := reg.Load(context.Background(), scriptURL, inj.Inject)
	require.ErrorIs(t, err, errNetwork)
	assert.Equal(t, StateUnloaded, reg.State(scriptURL))

	require.NoError(t, reg.Load(context.Background(), scriptURL, inj.Inject))
	assert.Equal(t, 2, inj.doc.Count(scriptURL), "retry must inject a fresh script element")
	assert.Equal(t, StateLoaded, reg.State(scriptURL))
}

func TestRegistry_CallerCancellationDoesNotAbortLoad(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reg := NewRegistry()
	inj := newFakeInjector()
	inj.gate = make(chan struct{})
	inj.entered = make(chan string, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Load(ctx, scriptURL, inj.Inject) }()

	<-inj.entered
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, StateLoading, reg.State(scriptURL), "load keeps running after the caller left")

	close(inj.gate)
	require.Eventually(t, func() bool {
		return reg.State(scriptURL) == StateLoaded
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, reg.Load(context.Background(), scriptURL, inj.Inject))
	assert.Equal(t, 1, inj.callCount(scriptURL))
}

func TestRegistry_StateIsExclusive(t *testing.T) {
	reg := NewRegistry()
	inj := newFakeInjector()
	inj.gate = make(chan struct{})
	inj.entered = make(chan string, 1)

	assert.Equal(t, StateUnloaded, reg.State(scriptURL))

	done := make(chan error, 1)
	go func() { done <- reg.Load(context.Background(), scriptURL, inj.Inject) }()
	<-inj.entered

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, URLState{URL: scriptURL, State: StateLoading}, snap[0])

	close(inj.gate)
	require.NoError(t, <-done)

	snap = reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, URLState{URL: scriptURL, State: StateLoaded}, snap[0])
}

func TestRegistry_Reset(t *testing.T) {
	reg := NewRegistry()
	inj := newFakeInjector()

	require.NoError(t, reg.Load(context.Background(), scriptURL, inj.Inject))
	reg.Reset()
	assert.Equal(t, StateUnloaded, reg.State(scriptURL))
	assert.Empty(t, reg.Snapshot())

	require.NoError(t, reg.Load(context.Background(), scriptURL, inj.Inject))
	assert.Equal(t, 2, inj.callCount(scriptURL))
}

func TestRegistry_IndependentURLs(t *testing.T) {
	reg := NewRegistry()
	inj := newFakeInjector()

	require.NoError(t, reg.Load(context.Background(), "https://a.test/a.js", inj.Inject))
	require.NoError(t, reg.Load(context.Background(), "https://b.test/b.js", inj.Inject))

	assert.Equal(t, StateLoaded, reg.State("https://a.test/a.js"))
	assert.Equal(t, StateLoaded, reg.State("https://b.test/b.js"))
	assert.Len(t, reg.Snapshot(), 2)
}

func TestRegistry_LoadAfterResetDoesNotJoinStaleLoad(t *testing.T) {
	reg := NewRegistry()

	release := make(chan struct{})
	stale := make(chan error, 1)
	go func() {
		stale <- reg.Load(context.Background(), scriptURL, func(context.Context, string) error {
			<-release
			return nil
		})
	}()
	require.Eventually(t, func() bool { return reg.State(scriptURL) == StateLoading }, time.Second, time.Millisecond)

	reg.Reset()

	var fresh int
	err := reg.Load(context.Background(), scriptURL, func(context.Context, string) error {
		fresh++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fresh, "a load started after Reset runs its own inject")
	assert.Equal(t, StateLoaded, reg.State(scriptURL))

	close(release)
	require.NoError(t, <-stale)
	assert.Equal(t, StateLoaded, reg.State(scriptURL))
}
