// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

// Detect evaluates every rule once against s and classifies the result.
// It never fails: missing signals leave the optimistic baseline in place.
func Detect(s Signals) Profile {
	p, _ := DetectWithTrace(s)
	return p
}

// DetectWithTrace is Detect plus the names of the rules that fired, in rule order.
func DetectWithTrace(s Signals) (Profile, []string) {
	p := Profile{
		CanHandleVideo:             true,
		CanHandleComplexAnimations: true,
		HasGoodConnection:          true,
	}

	var fired []string
	for _, r := range rules {
		if r.Applies(s) {
			r.Effect(&p)
			fired = append(fired, r.Name)
		}
	}

	p.RecommendedMediaType, p.MaxVideoQuality = classify(p)
	return p, fired
}

// classify picks the media type and quality ceiling. Video needs both a codec and a
// good connection; the tier then follows the device class.
func classify(p Profile) (MediaType, Quality) {
	if p.CanHandleVideo && p.HasGoodConnection {
		switch {
		case p.IsLowEndDevice:
			return MediaVideo, QualityLow
		case p.IsMobile:
			return MediaVideo, QualityMedium
		default:
			return MediaVideo, QualityHigh
		}
	}
	if p.IsLowEndDevice && !p.HasGoodConnection {
		return MediaStatic, QualityNone
	}
	return MediaImage, QualityNone
}
