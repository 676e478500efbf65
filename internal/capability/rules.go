// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import "strings"

// Rule is one independent heuristic. Applies only reads the signals and every Effect
// moves a single flag away from the baseline, so rule order does not change the outcome.
type Rule struct {
	Name    string
	Applies func(Signals) bool
	Effect  func(*Profile)
}

var mobileUAPatterns = []string{
	"android", "webos", "iphone", "ipad", "ipod", "blackberry", "iemobile", "opera mini",
}

// Old OS releases whose bundled browsers struggle with background video.
var legacyUAPatterns = []string{
	"android 4", "android 5", "android 6",
	"os 9_", "os 10_", "os 11_",
}

var goodEffectiveTypes = map[string]struct{}{
	"4g": {},
	"3g": {},
}

const (
	lowEndMemoryGB     = 4.0
	lowEndCores        = 4
	goodDownlinkMbps   = 1.5
	slowestEffectiveNT = "slow-2g"
)

var rules = []Rule{
	{
		Name:    "mobile_user_agent",
		Applies: func(s Signals) bool { return uaContainsAny(s.UserAgent, mobileUAPatterns) },
		Effect:  func(p *Profile) { p.IsMobile = true },
	},
	{
		Name:    "mobile_client_hint",
		Applies: func(s Signals) bool { return s.MobileHint != nil && *s.MobileHint },
		Effect:  func(p *Profile) { p.IsMobile = true },
	},
	{
		Name: "low_device_memory",
		Applies: func(s Signals) bool {
			return s.DeviceMemoryGB != nil && *s.DeviceMemoryGB > 0 && *s.DeviceMemoryGB < lowEndMemoryGB
		},
		Effect: markLowEnd,
	},
	{
		Name: "few_cpu_cores",
		Applies: func(s Signals) bool {
			return s.HardwareConcurrency != nil && *s.HardwareConcurrency > 0 && *s.HardwareConcurrency < lowEndCores
		},
		Effect: markLowEnd,
	},
	{
		Name:    "slow_2g_network",
		Applies: func(s Signals) bool { return normalizeEffectiveType(s.EffectiveType) == slowestEffectiveNT },
		Effect:  markLowEnd,
	},
	{
		Name:    "legacy_os",
		Applies: func(s Signals) bool { return uaContainsAny(s.UserAgent, legacyUAPatterns) },
		Effect:  markLowEnd,
	},
	{
		Name:    "poor_connection",
		Applies: poorConnection,
		Effect:  func(p *Profile) { p.HasGoodConnection = false },
	},
	{
		Name:    "save_data",
		Applies: Signals.SaveDataRequested,
		Effect:  func(p *Profile) { p.HasGoodConnection = false },
	},
	{
		Name:    "no_video_codec",
		Applies: noVideoCodec,
		Effect:  func(p *Profile) { p.CanHandleVideo = false },
	},
	{
		Name:    "no_webgl",
		Applies: func(s Signals) bool { return s.WebGL != nil && !*s.WebGL },
		Effect:  func(p *Profile) { p.CanHandleComplexAnimations = false },
	},
	{
		Name:    "no_css_transforms",
		Applies: func(s Signals) bool { return s.CSSTransforms != nil && !*s.CSSTransforms },
		Effect:  func(p *Profile) { p.CanHandleComplexAnimations = false },
	},
	{
		Name:    "reduced_motion",
		Applies: Signals.ReducedMotionRequested,
		Effect:  func(p *Profile) { p.CanHandleComplexAnimations = false },
	},
}

// Rules returns a copy of the ordered rule list.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

func markLowEnd(p *Profile) { p.IsLowEndDevice = true }

func uaContainsAny(ua string, patterns []string) bool {
	if ua == "" {
		return false
	}
	lower := strings.ToLower(ua)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func normalizeEffectiveType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// poorConnection is true only when the connection was measured and neither
// measurement qualifies. An undetectable connection counts as good.
func poorConnection(s Signals) bool {
	ect := normalizeEffectiveType(s.EffectiveType)
	if ect == "" && s.DownlinkMbps == nil {
		return false
	}
	if _, ok := goodEffectiveTypes[ect]; ok {
		return false
	}
	if s.DownlinkMbps != nil && *s.DownlinkMbps > goodDownlinkMbps {
		return false
	}
	return true
}

// noVideoCodec needs a negative answer from both probes; an unanswered probe is
// assumed playable.
func noVideoCodec(s Signals) bool {
	mp4 := s.CanPlayMP4 == nil || *s.CanPlayMP4
	webm := s.CanPlayWebM == nil || *s.CanPlayWebM
	return !mp4 && !webm
}
