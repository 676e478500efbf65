// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import "errors"

// Construction errors.
var (
	ErrMissingLogger     = errors.New("logger is required")
	ErrMissingAPIHandler = errors.New("API handler is required")
	ErrMissingListenAddr = errors.New("listen address is required")
	ErrMissingManager    = errors.New("manager is required")
)

// Lifecycle errors.
var (
	ErrManagerNotStarted = errors.New("manager not started")
	ErrManagerStarted    = errors.New("manager already started")
)
