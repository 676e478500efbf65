// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/studioedge/internal/capability"
	xglog "github.com/ManuGH/studioedge/internal/log"
	"github.com/ManuGH/studioedge/internal/metrics"
)

// DefaultProfileTTL bounds how long a derived profile is reused.
const DefaultProfileTTL = 30 * time.Minute

// Profiles caches capability profiles by Signals.Fingerprint. Cache failures are
// logged and treated as misses: the profile is always recomputable.
type Profiles struct {
	backend Cache
	name    string
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewProfiles wraps backend. name labels metrics ("memory" or "redis").
func NewProfiles(backend Cache, name string, ttl time.Duration, logger zerolog.Logger) *Profiles {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	if backend == nil {
		backend = NoOpCache{}
	}
	return &Profiles{backend: backend, name: name, ttl: ttl, logger: logger}
}

func profileKey(fingerprint string) string {
	return "profile:" + fingerprint
}

func (p *Profiles) Get(ctx context.Context, fingerprint string) (capability.Profile, bool) {
	raw, err := p.backend.Get(ctx, profileKey(fingerprint))
	switch {
	case errors.Is(err, ErrMiss):
		metrics.RecordProfileCache(p.name, "miss")
		return capability.Profile{}, false
	case err != nil:
		metrics.RecordProfileCache(p.name, "error")
		p.logger.Warn().Err(err).Str(xglog.FieldFingerprint, fingerprint).Msg("profile cache read failed")
		return capability.Profile{}, false
	}

	var prof capability.Profile
	if err := json.Unmarshal(raw, &prof); err != nil {
		metrics.RecordProfileCache(p.name, "error")
		p.logger.Warn().Err(err).Str(xglog.FieldFingerprint, fingerprint).Msg("discarding undecodable cached profile")
		_ = p.backend.Delete(ctx, profileKey(fingerprint))
		return capability.Profile{}, false
	}
	metrics.RecordProfileCache(p.name, "hit")
	return prof, true
}

func (p *Profiles) Put(ctx context.Context, fingerprint string, prof capability.Profile) {
	raw, err := json.Marshal(prof)
	if err != nil {
		p.logger.Warn().Err(err).Msg("profile encode failed")
		return
	}
	if err := p.backend.Set(ctx, profileKey(fingerprint), raw, p.ttl); err != nil {
		metrics.RecordProfileCache(p.name, "error")
		p.logger.Warn().Err(err).Str(xglog.FieldFingerprint, fingerprint).Msg("profile cache write failed")
	}
}

// Backend exposes the underlying cache for health checks and stats.
func (p *Profiles) Backend() Cache { return p.backend }
