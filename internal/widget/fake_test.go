// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"context"
	"errors"
	"sync"
)

var errNetwork = errors.New("network unreachable")

// fakeInjector appends a script element like the browser does and then settles
// according to the programmed failures. When gate is set the load blocks on it.
type fakeInjector struct {
	doc     *Document
	gate    chan struct{}
	entered chan string

	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int
}

func newFakeInjector() *fakeInjector {
	return &fakeInjector{
		doc:      NewDocument(),
		calls:    make(map[string]int),
		failures: make(map[string]int),
	}
}

func (f *fakeInjector) failNext(url string, n int) {
	f.mu.Lock()
	f.failures[url] += n
	f.mu.Unlock()
}

func (f *fakeInjector) Inject(ctx context.Context, url string) error {
	f.doc.AppendScript(url)

	f.mu.Lock()
	f.calls[url]++
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- url
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures[url] > 0 {
		f.failures[url]--
		return errNetwork
	}
	return ctx.Err()
}

func (f *fakeInjector) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}
