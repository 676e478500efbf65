// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import "strings"

// MediaType is the kind of hero media an environment should receive.
type MediaType string

const (
	MediaVideo  MediaType = "video"
	MediaImage  MediaType = "image"
	MediaStatic MediaType = "static"
)

// Quality is a video quality tier.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
	QualityNone   Quality = "none"
)

// Tiers lists the playable tiers from best to worst.
var Tiers = []Quality{QualityHigh, QualityMedium, QualityLow}

// ParseQuality normalises a tier name. Unknown names map to QualityNone.
func ParseQuality(s string) Quality {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case QualityHigh, QualityMedium, QualityLow:
		return q
	default:
		return QualityNone
	}
}

// Lower returns the next tier down, or false when q is already the lowest playable tier.
func (q Quality) Lower() (Quality, bool) {
	switch q {
	case QualityHigh:
		return QualityMedium, true
	case QualityMedium:
		return QualityLow, true
	default:
		return QualityNone, false
	}
}

// Profile is an immutable snapshot of what a client environment can handle.
type Profile struct {
	CanHandleVideo             bool      `json:"canHandleVideo"`
	CanHandleComplexAnimations bool      `json:"canHandleComplexAnimations"`
	IsLowEndDevice             bool      `json:"isLowEndDevice"`
	IsMobile                   bool      `json:"isMobile"`
	HasGoodConnection          bool      `json:"hasGoodConnection"`
	RecommendedMediaType       MediaType `json:"recommendedMediaType"`
	MaxVideoQuality            Quality   `json:"maxVideoQuality"`
}
