// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/ManuGH/studioedge/internal/platform/httpx"
	"github.com/ManuGH/studioedge/internal/platform/origin"
	"github.com/ManuGH/studioedge/internal/resilience"
)

// maxScriptBytes bounds how much of a vendor script is read before giving up.
const maxScriptBytes = 4 << 20

var ErrScriptStatus = errors.New("script fetch returned non-success status")

// HTTPInjector appends a script element to Doc and then fetches the script, which is
// what a browser does with an injected <script src>. The element stays in the
// document when the fetch fails, like a browser's would.
type HTTPInjector struct {
	Client  *http.Client
	Doc     *Document
	Limiter *rate.Limiter // optional pacing of outbound fetches
	Policy  *origin.Policy
	// Breakers optionally fail fast for hosts that keep failing. No element is
	// appended while a host's breaker is open.
	Breakers *resilience.HostBreakers
}

func (h *HTTPInjector) Inject(ctx context.Context, url string) error {
	if h.Policy != nil {
		if _, err := h.Policy.Check(url); err != nil {
			return fmt.Errorf("script %s: %w", origin.Sanitize(url), err)
		}
	}
	if h.Limiter != nil {
		if err := h.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for fetch slot: %w", err)
		}
	}
	if h.Breakers == nil {
		return h.inject(ctx, url)
	}
	host, err := scriptHost(url)
	if err != nil {
		return err
	}
	err = h.Breakers.For(host).Execute(ctx, func(ctx context.Context) error {
		return h.inject(ctx, url)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("script %s: %w", origin.Sanitize(url), err)
	}
	return err
}

func (h *HTTPInjector) inject(ctx context.Context, url string) error {
	if h.Doc != nil {
		h.Doc.AppendScript(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build script request: %w", err)
	}
	req.Header.Set("Accept", "application/javascript, text/javascript, */*;q=0.1")

	client := h.Client
	if client == nil {
		client = httpx.NewClient(0)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch script %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %d", ErrScriptStatus, url, resp.StatusCode)
	}
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxScriptBytes)); err != nil {
		return fmt.Errorf("read script %s: %w", url, err)
	}
	return nil
}

func scriptHost(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse script url: %w", err)
	}
	return u.Hostname(), nil
}
