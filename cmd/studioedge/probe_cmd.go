// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/studioedge/internal/capability"
	"github.com/ManuGH/studioedge/internal/media"
)

type probeResult struct {
	URL      string             `json:"url"`
	Signals  capability.Signals `json:"signals"`
	Profile  capability.Profile `json:"profile"`
	Rules    []string           `json:"rules"`
	Strategy media.Strategy     `json:"strategy"`
}

func newProbeCmd() *cobra.Command {
	var probe capability.BrowserProbe
	cmd := &cobra.Command{
		Use:   "probe <url>",
		Short: "Profile a page in a real browser",
		Long: `Opens url in Chromium, runs the capability probe script there and prints the
signals, the derived profile and the media strategy as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := probe.Collect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			profile, rules := capability.DetectWithTrace(sig)
			res := probeResult{
				URL:      args[0],
				Signals:  sig,
				Profile:  profile,
				Rules:    rules,
				Strategy: media.DeriveStrategy(profile, sig.ReducedMotionRequested()),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&probe.Bin, "browser", "", "browser binary (downloaded when empty)")
	cmd.Flags().StringVar(&probe.DebuggerURL, "debugger-url", "", "attach to a running browser's DevTools endpoint")
	cmd.Flags().BoolVar(&probe.Headless, "headless", true, "run the browser headless")
	cmd.Flags().DurationVar(&probe.Timeout, "timeout", 30*time.Second, "overall probe timeout")
	return cmd
}
