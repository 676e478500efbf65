// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/studioedge/internal/config"
	"github.com/ManuGH/studioedge/internal/log"
)

// PerformStartupChecks verifies what must hold before serve starts listening. It
// creates the report directory when missing.
func PerformStartupChecks(_ context.Context, cfg config.Config) error {
	logger := log.WithComponent("startup-check")

	if cfg.Reports.Enabled {
		dir := filepath.Dir(cfg.Reports.Path)
		if err := ensureWritableDir(dir); err != nil {
			return fmt.Errorf("report directory check failed: %w", err)
		}
	}
	if _, err := cfg.Catalog(); err != nil {
		return fmt.Errorf("media catalog: %w", err)
	}

	logger.Info().Str(log.FieldEvent, "startup.checks_passed").Msg("startup checks passed")
	return nil
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}
	probe, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s: %w", dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}
