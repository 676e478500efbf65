// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignals_MergeOverridesPresentFields(t *testing.T) {
	hints := Signals{UserAgent: uaDesktopChrome, EffectiveType: "4g", DeviceMemoryGB: fptr(8)}
	beacon := Signals{DeviceMemoryGB: fptr(2), HardwareConcurrency: iptr(2), WebGL: bptr(false)}

	got := hints.Merge(beacon)

	assert.Equal(t, uaDesktopChrome, got.UserAgent)
	assert.Equal(t, "4g", got.EffectiveType)
	assert.Equal(t, 2.0, *got.DeviceMemoryGB)
	assert.Equal(t, 2, *got.HardwareConcurrency)
	assert.False(t, *got.WebGL)
	assert.Equal(t, 8.0, *hints.DeviceMemoryGB, "merge must not mutate the receiver's pointees")
}

func TestSignals_Fingerprint(t *testing.T) {
	a := Signals{UserAgent: uaIPhone, EffectiveType: "4g", DeviceMemoryGB: fptr(4)}
	b := Signals{UserAgent: uaIPhone, EffectiveType: "4g", DeviceMemoryGB: fptr(4)}
	c := Signals{UserAgent: uaIPhone, EffectiveType: "3g", DeviceMemoryGB: fptr(4)}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 24)
}

// Every signal a rule reads must be part of the cache key, otherwise a cached
// profile leaks from one client to another.
func TestSignals_FingerprintCoversDetectInputs(t *testing.T) {
	base := Signals{
		UserAgent:           uaDesktopChrome,
		MobileHint:          bptr(false),
		DeviceMemoryGB:      fptr(8),
		HardwareConcurrency: iptr(8),
		EffectiveType:       "4g",
		DownlinkMbps:        fptr(10),
		SaveData:            bptr(false),
		CanPlayMP4:          bptr(true),
		CanPlayWebM:         bptr(true),
		WebGL:               bptr(true),
		CSSTransforms:       bptr(true),
		ReducedMotion:       bptr(false),
	}

	tests := []struct {
		field  string
		mutate func(*Signals)
	}{
		{"UserAgent", func(s *Signals) { s.UserAgent = uaIPhone }},
		{"MobileHint", func(s *Signals) { s.MobileHint = bptr(true) }},
		{"MobileHint absent", func(s *Signals) { s.MobileHint = nil }},
		{"DeviceMemoryGB", func(s *Signals) { s.DeviceMemoryGB = fptr(2) }},
		{"HardwareConcurrency", func(s *Signals) { s.HardwareConcurrency = iptr(2) }},
		{"EffectiveType", func(s *Signals) { s.EffectiveType = "2g" }},
		{"DownlinkMbps", func(s *Signals) { s.DownlinkMbps = fptr(0.5) }},
		{"SaveData", func(s *Signals) { s.SaveData = bptr(true) }},
		{"SaveData absent", func(s *Signals) { s.SaveData = nil }},
		{"CanPlayMP4", func(s *Signals) { s.CanPlayMP4 = bptr(false) }},
		{"CanPlayWebM", func(s *Signals) { s.CanPlayWebM = bptr(false) }},
		{"WebGL", func(s *Signals) { s.WebGL = bptr(false) }},
		{"CSSTransforms", func(s *Signals) { s.CSSTransforms = bptr(false) }},
		{"ReducedMotion", func(s *Signals) { s.ReducedMotion = bptr(true) }},
		{"ReducedMotion absent", func(s *Signals) { s.ReducedMotion = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			changed := base
			tt.mutate(&changed)
			assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint())
		})
	}
}

func TestSignals_MergeSaveDataCanBeCleared(t *testing.T) {
	hints := Signals{SaveData: bptr(true)}

	got := hints.Merge(Signals{SaveData: bptr(false)})
	assert.False(t, got.SaveDataRequested())

	kept := hints.Merge(Signals{})
	assert.True(t, kept.SaveDataRequested(), "absent beacon field keeps the hint")
}
