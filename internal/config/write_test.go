// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_RoundTripsThroughLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "studioedge.yaml")
	require.NoError(t, Write(path, Default(), false))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "# studioedge configuration"))
	assert.Contains(t, string(raw), "settleDelay: 150ms")

	cfg, err := (&Loader{Path: path, LookupEnv: envMap(nil)}).LoadValidated()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestWrite_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studioedge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o600))

	err := Write(path, Default(), false)
	assert.ErrorIs(t, err, ErrConfigExists)

	raw, _ := os.ReadFile(path)
	assert.Equal(t, "version: 1\n", string(raw))

	require.NoError(t, Write(path, Default(), true))
	raw, _ = os.ReadFile(path)
	assert.Contains(t, string(raw), "listenAddr")
}
