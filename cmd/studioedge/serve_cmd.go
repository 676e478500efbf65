// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManuGH/studioedge/internal/config"
	"github.com/ManuGH/studioedge/internal/daemon"
	xglog "github.com/ManuGH/studioedge/internal/log"
	"github.com/ManuGH/studioedge/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Starts the edge service. The config file is watched and reloaded on change or
SIGHUP; SIGINT and SIGTERM trigger a graceful shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			loader := config.NewLoader(path)
			cfg, err := loader.LoadValidated()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			xglog.Configure(xglog.Config{
				Level:   cfg.Logging.Level,
				Output:  cmd.ErrOrStderr(),
				Service: "studioedge",
				Version: version.Version,
			})
			logger := xglog.WithComponent("main")
			logger.Info().
				Str(xglog.FieldEvent, "startup").
				Str("version", version.Version).
				Str("commit", version.Commit).
				Str("config", path).
				Msg("starting studioedge")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := daemon.Bootstrap(ctx, daemon.Options{
				Config:  cfg,
				Holder:  config.NewHolder(cfg, loader),
				Version: version.Version,
			})
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info().Str(xglog.FieldEvent, "shutdown.complete").Msg("studioedge stopped")
			return nil
		},
	}
}
