// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/studioedge/internal/metrics"
)

// ScriptState is the lifecycle of one script URL within a Registry.
// unloaded -> loading -> loaded is terminal; a failed load returns to unloaded.
type ScriptState string

const (
	StateUnloaded ScriptState = "unloaded"
	StateLoading  ScriptState = "loading"
	StateLoaded   ScriptState = "loaded"
)

// InjectFunc performs one load of a script URL.
type InjectFunc func(ctx context.Context, url string) error

// Registry tracks which script URLs are loaded or loading. A URL is in at most one
// of the two sets. Loaded URLs are never reloaded or removed except by Reset.
type Registry struct {
	mu       sync.Mutex
	gen      uint64
	loaded   map[string]struct{}
	inFlight map[string]struct{}
	sf       singleflight.Group
}

func NewRegistry() *Registry {
	return &Registry{
		loaded:   make(map[string]struct{}),
		inFlight: make(map[string]struct{}),
	}
}

// Load makes sure url has been loaded once. Concurrent callers for the same URL share
// a single inject call. The shared load ignores the callers' cancellation: a caller
// whose ctx ends stops waiting, the load itself runs to completion for later callers.
func (r *Registry) Load(ctx context.Context, url string, inject InjectFunc) error {
	if r.isLoaded(url) {
		metrics.RecordScriptLoad("cached")
		return nil
	}

	detached := context.WithoutCancel(ctx)
	ch := r.sf.DoChan(url, func() (any, error) {
		gen, already := r.begin(url)
		if already {
			return nil, nil
		}

		err := inject(detached, url)
		r.finish(gen, url, err)
		if err != nil {
			metrics.RecordScriptLoad("failed")
		} else {
			metrics.RecordScriptLoad("loaded")
		}
		return nil, err
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) isLoaded(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.loaded[url]
	return ok
}

// begin moves url to loading unless a racing load already finished it.
func (r *Registry) begin(url string) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loaded[url]; ok {
		return r.gen, true
	}
	r.inFlight[url] = struct{}{}
	return r.gen, false
}

// finish settles url. Completions from before a Reset are dropped.
func (r *Registry) finish(gen uint64, url string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return
	}
	delete(r.inFlight, url)
	if err == nil {
		r.loaded[url] = struct{}{}
	}
	metrics.SetLoadedScripts(len(r.loaded))
}

func (r *Registry) State(url string) ScriptState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loaded[url]; ok {
		return StateLoaded
	}
	if _, ok := r.inFlight[url]; ok {
		return StateLoading
	}
	return StateUnloaded
}

// URLState is one row of Snapshot.
type URLState struct {
	URL   string      `json:"url"`
	State ScriptState `json:"state"`
}

// Snapshot lists every known URL sorted by URL.
func (r *Registry) Snapshot() []URLState {
	r.mu.Lock()
	out := make([]URLState, 0, len(r.loaded)+len(r.inFlight))
	for u := range r.loaded {
		out = append(out, URLState{URL: u, State: StateLoaded})
	}
	for u := range r.inFlight {
		out = append(out, URLState{URL: u, State: StateLoading})
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Reset forgets all state. Loads still in flight finish but are not recorded, and
// callers arriving after Reset start a fresh load instead of joining them.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	for url := range r.inFlight {
		r.sf.Forget(url)
	}
	r.loaded = make(map[string]struct{})
	r.inFlight = make(map[string]struct{})
	metrics.SetLoadedScripts(0)
}
