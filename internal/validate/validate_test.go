// SPDX-License-Identifier: MIT

package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_AccumulatesErrors(t *testing.T) {
	v := New()
	v.Range("Cache.DB", 99, 0, 15)
	v.NotEmpty("Reports.Path", "  ")
	v.OneOf("Cache.Backend", "memcached", "memory", "redis", "none")

	err := v.Err()
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors(), 3)
	assert.Equal(t, "Cache.DB", verr.Errors()[0].Field)
	assert.Contains(t, err.Error(), "Reports.Path")
	assert.Contains(t, err.Error(), "; ")
}

func TestValidator_Valid(t *testing.T) {
	v := New()
	v.URL("u", "https://widgets.mindbodyonline.com/javascripts/healcode.js", "https")
	v.ListenAddr("addr", ":8080")
	v.ListenAddr("addr", "127.0.0.1:0")
	v.DurationRange("d", 150*time.Millisecond, 0, 5*time.Second)
	v.FloatRange("f", 0.5, 0, 1)
	v.MediaRef("m", "/media/hero.jpg")
	v.MediaRef("m", "https://cdn.example/hero.jpg")

	assert.True(t, v.IsValid())
	assert.NoError(t, v.Err())
}

func TestValidator_RejectsBadValues(t *testing.T) {
	cases := map[string]func(v *Validator){
		"scheme":            func(v *Validator) { v.URL("u", "ftp://x.test/a", "https") },
		"no host":           func(v *Validator) { v.URL("u", "https:///a", "https") },
		"empty url":         func(v *Validator) { v.URL("u", "", "https") },
		"listen no port":    func(v *Validator) { v.ListenAddr("a", "localhost") },
		"listen bad port":   func(v *Validator) { v.ListenAddr("a", ":99999") },
		"duration high":     func(v *Validator) { v.DurationRange("d", time.Minute, 0, time.Second) },
		"float low":         func(v *Validator) { v.FloatRange("f", -1, 0, 1) },
		"protocol relative": func(v *Validator) { v.MediaRef("m", "//cdn.example/x.mp4") },
		"bare word":         func(v *Validator) { v.MediaRef("m", "hero.mp4") },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			v := New()
			fn(v)
			assert.False(t, v.IsValid())
		})
	}
}
