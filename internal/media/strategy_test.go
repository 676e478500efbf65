// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/studioedge/internal/capability"
)

func TestDeriveStrategy_MobileGoodConnection(t *testing.T) {
	p := capability.Profile{
		IsMobile:                   true,
		HasGoodConnection:          true,
		CanHandleVideo:             true,
		CanHandleComplexAnimations: true,
		RecommendedMediaType:       capability.MediaVideo,
		MaxVideoQuality:            capability.QualityMedium,
	}

	s := DeriveStrategy(p, false)

	assert.True(t, s.UseVideo)
	assert.Equal(t, capability.QualityMedium, s.VideoQuality)
	assert.True(t, s.FallbackToImage)
	assert.True(t, s.UseAnimations)
	assert.False(t, s.UseParallax, "no parallax on mobile")
}

func TestDeriveStrategy_EndToEndFromSignals(t *testing.T) {
	mobile := true
	four := 4.0
	p := capability.Detect(capability.Signals{
		UserAgent:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X)",
		MobileHint:     &mobile,
		DeviceMemoryGB: &four,
		EffectiveType:  "4g",
	})
	s := DeriveStrategy(p, false)
	assert.True(t, s.UseVideo)
	assert.Equal(t, capability.QualityMedium, s.VideoQuality)
}

func TestDeriveStrategy_LowEndNeverUsesVideo(t *testing.T) {
	for _, good := range []bool{true, false} {
		p := capability.Profile{
			IsMobile:          false,
			IsLowEndDevice:    true,
			HasGoodConnection: good,
			CanHandleVideo:    true,
		}
		p.RecommendedMediaType, p.MaxVideoQuality = capability.MediaImage, capability.QualityNone
		if good {
			p.RecommendedMediaType, p.MaxVideoQuality = capability.MediaVideo, capability.QualityLow
		}

		s := DeriveStrategy(p, false)
		assert.False(t, s.UseVideo, "good connection=%v", good)
		assert.Equal(t, capability.QualityNone, s.VideoQuality)
		assert.False(t, s.FallbackToImage)
	}
}

func TestDeriveStrategy_NoCodecNeverUsesVideo(t *testing.T) {
	p := capability.Profile{
		CanHandleVideo:       false,
		HasGoodConnection:    true,
		RecommendedMediaType: capability.MediaVideo,
		MaxVideoQuality:      capability.QualityHigh,
	}
	s := DeriveStrategy(p, false)
	assert.False(t, s.UseVideo)

	src := PickSource(Candidates{capability.QualityHigh: "hero-high.mp4"}, "hero.jpg", s)
	assert.Equal(t, "hero.jpg", src.URL)
	assert.Equal(t, KindImage, src.Kind)
}

func TestDeriveStrategy_ReducedMotionIsLive(t *testing.T) {
	p := capability.Detect(capability.Signals{})

	assert.True(t, DeriveStrategy(p, false).UseAnimations)
	assert.True(t, DeriveStrategy(p, false).UseParallax)

	s := DeriveStrategy(p, true)
	assert.True(t, s.ReducedMotion)
	assert.False(t, s.UseAnimations)
	assert.False(t, s.UseParallax)
	assert.True(t, s.UseVideo, "reduced motion does not disable video")
}
