// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package capability derives a client capability profile from browser signals.
package capability

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Signals are the raw environment observations for one client.
// Nil pointers and empty strings mean the signal was not available.
type Signals struct {
	UserAgent           string   `json:"userAgent,omitempty"`
	MobileHint          *bool    `json:"mobile,omitempty"`
	DeviceMemoryGB      *float64 `json:"deviceMemory,omitempty"`
	HardwareConcurrency *int     `json:"hardwareConcurrency,omitempty"`
	EffectiveType       string   `json:"effectiveType,omitempty"`
	DownlinkMbps        *float64 `json:"downlink,omitempty"`
	SaveData            *bool    `json:"saveData,omitempty"`
	CanPlayMP4          *bool    `json:"canPlayMP4,omitempty"`
	CanPlayWebM         *bool    `json:"canPlayWebM,omitempty"`
	WebGL               *bool    `json:"webgl,omitempty"`
	CSSTransforms       *bool    `json:"cssTransforms,omitempty"`
	ReducedMotion       *bool    `json:"reducedMotion,omitempty"`
}

// Merge returns s with every signal present in override replacing the one in s.
func (s Signals) Merge(override Signals) Signals {
	out := s
	if override.UserAgent != "" {
		out.UserAgent = override.UserAgent
	}
	if override.MobileHint != nil {
		out.MobileHint = override.MobileHint
	}
	if override.DeviceMemoryGB != nil {
		out.DeviceMemoryGB = override.DeviceMemoryGB
	}
	if override.HardwareConcurrency != nil {
		out.HardwareConcurrency = override.HardwareConcurrency
	}
	if override.EffectiveType != "" {
		out.EffectiveType = override.EffectiveType
	}
	if override.DownlinkMbps != nil {
		out.DownlinkMbps = override.DownlinkMbps
	}
	if override.SaveData != nil {
		out.SaveData = override.SaveData
	}
	if override.CanPlayMP4 != nil {
		out.CanPlayMP4 = override.CanPlayMP4
	}
	if override.CanPlayWebM != nil {
		out.CanPlayWebM = override.CanPlayWebM
	}
	if override.WebGL != nil {
		out.WebGL = override.WebGL
	}
	if override.CSSTransforms != nil {
		out.CSSTransforms = override.CSSTransforms
	}
	if override.ReducedMotion != nil {
		out.ReducedMotion = override.ReducedMotion
	}
	return out
}

// SaveDataRequested reports whether the client asked for reduced data usage.
func (s Signals) SaveDataRequested() bool {
	return s.SaveData != nil && *s.SaveData
}

// ReducedMotionRequested reports whether the client asked for reduced motion.
func (s Signals) ReducedMotionRequested() bool {
	return s.ReducedMotion != nil && *s.ReducedMotion
}

// Fingerprint is a stable key over every signal that influences Detect, so a cached
// Profile is only ever shared between clients that Detect cannot tell apart.
func (s Signals) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ua=%s|", s.UserAgent)
	fmt.Fprintf(&b, "mob=%s|", fmtBool(s.MobileHint))
	fmt.Fprintf(&b, "mem=%s|", fmtFloat(s.DeviceMemoryGB))
	if s.HardwareConcurrency != nil {
		fmt.Fprintf(&b, "cpu=%d|", *s.HardwareConcurrency)
	} else {
		b.WriteString("cpu=?|")
	}
	fmt.Fprintf(&b, "ect=%s|", strings.ToLower(s.EffectiveType))
	fmt.Fprintf(&b, "dl=%s|", fmtFloat(s.DownlinkMbps))
	fmt.Fprintf(&b, "sd=%s|", fmtBool(s.SaveData))
	fmt.Fprintf(&b, "mp4=%s|webm=%s|", fmtBool(s.CanPlayMP4), fmtBool(s.CanPlayWebM))
	fmt.Fprintf(&b, "gl=%s|tf=%s|", fmtBool(s.WebGL), fmtBool(s.CSSTransforms))
	fmt.Fprintf(&b, "rm=%s", fmtBool(s.ReducedMotion))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:12])
}

func fmtBool(v *bool) string {
	if v == nil {
		return "?"
	}
	if *v {
		return "1"
	}
	return "0"
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%g", *v)
}
