// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package media turns a capability profile into a rendering strategy and resolves
// concrete media sources for it.
package media

import "github.com/ManuGH/studioedge/internal/capability"

type Strategy struct {
	UseVideo        bool               `json:"useVideo"`
	UseAnimations   bool               `json:"useAnimations"`
	UseParallax     bool               `json:"useParallax"`
	VideoQuality    capability.Quality `json:"videoQuality"`
	FallbackToImage bool               `json:"fallbackToImage"`
	ReducedMotion   bool               `json:"reducedMotion"`
}

// DeriveStrategy is pure. reducedMotion is the live preference, not the one the
// profile was computed with, since the OS setting can change without a reload.
func DeriveStrategy(p capability.Profile, reducedMotion bool) Strategy {
	useVideo := p.RecommendedMediaType == capability.MediaVideo &&
		p.CanHandleVideo &&
		!p.IsLowEndDevice

	quality := capability.QualityNone
	if useVideo {
		quality = p.MaxVideoQuality
	}

	animations := p.CanHandleComplexAnimations && !reducedMotion

	return Strategy{
		UseVideo:        useVideo,
		UseAnimations:   animations,
		UseParallax:     animations && !p.IsMobile && !p.IsLowEndDevice,
		VideoQuality:    quality,
		FallbackToImage: useVideo,
		ReducedMotion:   reducedMotion,
	}
}
