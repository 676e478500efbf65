// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command studioedge serves capability profiles, adaptive media selections and
// third-party widget loading for the studio site.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ManuGH/studioedge/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studioedge",
		Short:         "Capability-aware media and widget edge service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", config.ParseString(config.EnvConfigFile, ""), "path to config file (YAML)")

	root.AddCommand(
		newServeCmd(),
		newConfigCmd(),
		newReportsCmd(),
		newProbeCmd(),
		newHealthcheckCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the file named by --config, or defaults plus environment when the
// flag is empty.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	return config.NewLoader(path).LoadValidated()
}
