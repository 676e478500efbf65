// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/studioedge/internal/persistence/sqlite"
	"github.com/ManuGH/studioedge/internal/reports"
)

var errReportsDisabled = errors.New("capability reports are disabled in this config")

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect the capability report store",
	}
	cmd.AddCommand(newReportsVerifyCmd(), newReportsSummaryCmd())
	return cmd
}

func newReportsVerifyCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run a SQLite integrity check on the report store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Reports.Enabled {
				return errReportsDisabled
			}
			issues, err := sqlite.VerifyIntegrity(cmd.Context(), cfg.Reports.Path, full)
			if err != nil {
				return err
			}
			if len(issues) > 0 {
				return fmt.Errorf("integrity check failed for %s:\n  %s", cfg.Reports.Path, strings.Join(issues, "\n  "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", cfg.Reports.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "run integrity_check instead of quick_check")
	return cmd
}

func newReportsSummaryCmd() *cobra.Command {
	var since time.Duration
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print aggregated capability reports as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if since <= 0 {
				return fmt.Errorf("--since must be positive, got %s", since)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Reports.Enabled {
				return errReportsDisabled
			}
			store, err := reports.Open(cmd.Context(), cfg.Reports.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sum, err := store.Summary(cmd.Context(), time.Now().Add(-since))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "report window")
	return cmd
}
