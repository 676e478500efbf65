// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest_ParsesHints(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", uaIPhone)
	req.Header.Set(HeaderUAMobile, "?1")
	req.Header.Set(HeaderDeviceMemory, "2")
	req.Header.Set(HeaderECT, "3G")
	req.Header.Set(HeaderDownlink, "1.25")
	req.Header.Set(HeaderSaveData, "on")
	req.Header.Set(HeaderReducedMotion, "reduce")

	s := FromRequest(req)

	assert.Equal(t, uaIPhone, s.UserAgent)
	require.NotNil(t, s.MobileHint)
	assert.True(t, *s.MobileHint)
	require.NotNil(t, s.DeviceMemoryGB)
	assert.Equal(t, 2.0, *s.DeviceMemoryGB)
	assert.Equal(t, "3g", s.EffectiveType)
	require.NotNil(t, s.DownlinkMbps)
	assert.Equal(t, 1.25, *s.DownlinkMbps)
	require.NotNil(t, s.SaveData)
	assert.True(t, *s.SaveData)
	assert.True(t, s.ReducedMotionRequested())
}

func TestFromRequest_IgnoresMalformedHints(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderDeviceMemory, "lots")
	req.Header.Set(HeaderDownlink, "-3")
	req.Header.Set(HeaderUAMobile, "maybe")

	s := FromRequest(req)

	assert.Nil(t, s.DeviceMemoryGB)
	assert.Nil(t, s.DownlinkMbps)
	assert.Nil(t, s.MobileHint)
	assert.Nil(t, s.ReducedMotion)
	assert.Nil(t, s.SaveData)
}

func TestAcceptCH_ListsEveryHint(t *testing.T) {
	for _, h := range []string{HeaderUAMobile, HeaderDeviceMemory, HeaderECT, HeaderDownlink, HeaderSaveData, HeaderReducedMotion} {
		assert.Contains(t, AcceptCH, h)
	}
}
