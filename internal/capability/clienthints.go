// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import (
	"net/http"
	"strconv"
	"strings"
)

// Client hint request headers.
const (
	HeaderUAMobile      = "Sec-CH-UA-Mobile"
	HeaderDeviceMemory  = "Device-Memory"
	HeaderECT           = "ECT"
	HeaderDownlink      = "Downlink"
	HeaderSaveData      = "Save-Data"
	HeaderReducedMotion = "Sec-CH-Prefers-Reduced-Motion"
)

// AcceptCH is the Accept-CH value advertising every hint FromRequest understands.
var AcceptCH = strings.Join([]string{
	HeaderUAMobile,
	HeaderDeviceMemory,
	HeaderECT,
	HeaderDownlink,
	HeaderSaveData,
	HeaderReducedMotion,
}, ", ")

// FromRequest reads the user agent and client hints of r.
// Malformed hint values are ignored.
func FromRequest(r *http.Request) Signals {
	h := r.Header
	s := Signals{
		UserAgent:     r.UserAgent(),
		EffectiveType: strings.ToLower(strings.TrimSpace(h.Get(HeaderECT))),
	}

	switch strings.TrimSpace(h.Get(HeaderUAMobile)) {
	case "?1":
		s.MobileHint = boolPtr(true)
	case "?0":
		s.MobileHint = boolPtr(false)
	}

	if v, ok := parsePositiveFloat(h.Get(HeaderDeviceMemory)); ok {
		s.DeviceMemoryGB = &v
	}
	if v, ok := parsePositiveFloat(h.Get(HeaderDownlink)); ok {
		s.DownlinkMbps = &v
	}

	if v := strings.TrimSpace(h.Get(HeaderSaveData)); v != "" {
		s.SaveData = boolPtr(strings.EqualFold(v, "on"))
	}

	switch strings.ToLower(strings.TrimSpace(h.Get(HeaderReducedMotion))) {
	case "reduce":
		s.ReducedMotion = boolPtr(true)
	case "no-preference":
		s.ReducedMotion = boolPtr(false)
	}
	return s
}

func parsePositiveFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func boolPtr(v bool) *bool { return &v }
