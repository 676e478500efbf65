// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"strings"

	"github.com/ManuGH/studioedge/internal/capability"
)

type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

type Reason string

const (
	ReasonExactTier        Reason = "exact_tier"
	ReasonDegradedTier     Reason = "degraded_tier"
	ReasonVideoDisabled    Reason = "video_disabled"
	ReasonNoVideoCandidate Reason = "no_video_candidate"
)

// Candidates maps a quality tier to a video URL. Missing or blank tiers are skipped.
type Candidates map[capability.Quality]string

// Source is the outcome of PickSource. Degraded reports that the requested tier
// was not served as asked.
type Source struct {
	URL      string             `json:"url"`
	Kind     Kind               `json:"kind"`
	Tier     capability.Quality `json:"tier"`
	Reason   Reason             `json:"reason"`
	Degraded bool               `json:"degraded"`
}

// PickSource walks from the strategy's tier down to the lowest tier and falls back
// to the still image when no video tier has a URL. It never returns an empty URL
// as long as fallbackImage is non-empty.
func PickSource(c Candidates, fallbackImage string, s Strategy) Source {
	image := Source{URL: fallbackImage, Kind: KindImage, Tier: capability.QualityNone}

	if !s.UseVideo || s.VideoQuality == capability.QualityNone {
		image.Reason = ReasonVideoDisabled
		return image
	}

	tier := s.VideoQuality
	for {
		if url := strings.TrimSpace(c[tier]); url != "" {
			src := Source{URL: url, Kind: KindVideo, Tier: tier, Reason: ReasonExactTier}
			if tier != s.VideoQuality {
				src.Reason = ReasonDegradedTier
				src.Degraded = true
			}
			return src
		}
		next, ok := tier.Lower()
		if !ok {
			break
		}
		tier = next
	}

	image.Reason = ReasonNoVideoCandidate
	image.Degraded = true
	return image
}
