// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads the configuration file and environment.
type Loader struct {
	// Path is the YAML file. Empty means defaults plus environment only.
	Path string
	// LookupEnv overrides os.LookupEnv, mainly for tests.
	LookupEnv LookupFunc
}

func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// Load merges defaults, file and environment. It does not validate.
func (l *Loader) Load() (Config, error) {
	cfg := Default()
	if l.Path != "" {
		data, err := os.ReadFile(l.Path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := decodeStrict(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", l.Path, err)
		}
	}
	if cfg.Version > CurrentVersion {
		return Config{}, fmt.Errorf("%w: %d (this build supports %d)", ErrUnsupportedVersion, cfg.Version, CurrentVersion)
	}
	applyEnv(&cfg, newEnvSource(l.LookupEnv))
	return cfg, nil
}

// LoadValidated is Load followed by Validate.
func (l *Loader) LoadValidated() (Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeStrict decodes data over cfg, rejecting unknown keys and extra documents.
// Sections present in the file replace the defaults they cover; lists are not merged.
func decodeStrict(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}
