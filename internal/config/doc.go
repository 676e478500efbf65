// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads studioedge configuration.
//
// Precedence, lowest to highest: built-in defaults, the YAML file, STUDIOEDGE_*
// environment variables. The media catalog and widget table can be hot reloaded
// through Holder; listener and storage settings need a restart.
package config
