// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ProbeScript is the browser snippet that collects Signals. Served to pages, which post
// the result to the beacon endpoint named by the script tag's data-endpoint attribute.
//
//go:embed probe.js
var ProbeScript string

// BrowserProbe runs ProbeScript inside a real Chromium instance.
type BrowserProbe struct {
	Bin         string // optional browser binary; rod downloads one when empty
	DebuggerURL string // optional existing DevTools endpoint; skips launching
	Headless    bool
	Timeout     time.Duration
}

// Collect loads url and returns the signals the probe observed there.
func (b BrowserProbe) Collect(ctx context.Context, url string) (Signals, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	controlURL := b.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(b.Headless)
		if b.Bin != "" {
			l = l.Bin(b.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return Signals{}, fmt.Errorf("launch browser: %w", err)
		}
		defer l.Cleanup()
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return Signals{}, fmt.Errorf("connect to browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return Signals{}, fmt.Errorf("open page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return Signals{}, fmt.Errorf("wait for page load: %w", err)
	}

	res, err := page.Evaluate(&rod.EvalOptions{
		JS:      "() => {\n" + ProbeScript + "\nreturn window.studioedgeCollect();\n}",
		ByValue: true,
	})
	if err != nil {
		return Signals{}, fmt.Errorf("evaluate probe: %w", err)
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return Signals{}, fmt.Errorf("encode probe result: %w", err)
	}
	return DecodeProbeResult(raw)
}

// DecodeProbeResult parses the JSON object produced by ProbeScript.
func DecodeProbeResult(raw []byte) (Signals, error) {
	var s Signals
	if err := json.Unmarshal(raw, &s); err != nil {
		return Signals{}, fmt.Errorf("decode probe result: %w", err)
	}
	return s, nil
}
