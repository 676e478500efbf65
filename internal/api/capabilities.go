// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/studioedge/internal/capability"
	"github.com/ManuGH/studioedge/internal/log"
	"github.com/ManuGH/studioedge/internal/media"
	"github.com/ManuGH/studioedge/internal/metrics"
	"github.com/ManuGH/studioedge/internal/reports"
	"github.com/ManuGH/studioedge/internal/telemetry"
)

const (
	maxBeaconBytes     = 16 << 10
	defaultSummaryAge  = 24 * time.Hour
	sourceHints        = "hints"
	sourceBeacon       = "beacon"
	sourceCache        = "cache"
	summaryQuerySince  = "since"
	redirectQueryParam = "redirect"
)

// CapabilityResponse is the body of both capability endpoints.
type CapabilityResponse struct {
	Profile     capability.Profile `json:"profile"`
	Strategy    media.Strategy     `json:"strategy"`
	Fingerprint string             `json:"fingerprint"`
	Source      string             `json:"source"`
}

// profileFor returns the cached profile for s or computes and caches it. source is
// "cache" on a hit, otherwise the given origin of the signals.
func (s *Server) profileFor(ctx context.Context, sig capability.Signals, origin string) (capability.Profile, []string, string) {
	fp := sig.Fingerprint()
	if s.deps.Profiles != nil {
		if p, ok := s.deps.Profiles.Get(ctx, fp); ok {
			return p, nil, sourceCache
		}
	}

	p, rules := capability.DetectWithTrace(sig)
	metrics.RecordRuleHits(rules)
	if s.deps.Profiles != nil {
		s.deps.Profiles.Put(ctx, fp, p)
	}
	return p, rules, origin
}

func (s *Server) respondProfile(w http.ResponseWriter, r *http.Request, sig capability.Signals, p capability.Profile, source string) {
	metrics.RecordProfile(string(p.RecommendedMediaType), string(p.MaxVideoQuality), source)
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.ProfileAttributes(
		string(p.RecommendedMediaType), string(p.MaxVideoQuality), source, p.IsMobile, p.IsLowEndDevice)...)

	// The profile depends on the hint headers, so shared caches must key on them.
	w.Header().Set("Cache-Control", "private, no-store")
	writeJSON(w, http.StatusOK, CapabilityResponse{
		Profile:     p,
		Strategy:    media.DeriveStrategy(p, sig.ReducedMotionRequested()),
		Fingerprint: sig.Fingerprint(),
		Source:      source,
	})
}

// handleGetCapabilities profiles the client from its user agent and client hints.
func (s *Server) handleGetCapabilities(w http.ResponseWriter, r *http.Request) {
	sig := capability.FromRequest(r)
	p, _, source := s.profileFor(r.Context(), sig, sourceHints)
	s.respondProfile(w, r, sig, p, source)
}

// handleBeacon accepts the signals collected by the probe script. Values in the body
// override the request's client hints. The derived profile is recorded as a report.
func (s *Server) handleBeacon(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || (mt != "application/json" && mt != "text/plain") {
			writeError(w, r, http.StatusUnsupportedMediaType, codeUnsupportedMedia, "beacon must be JSON")
			return
		}
	}

	body, err := decodeSignals(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidSignals, err.Error())
		return
	}

	sig := capability.FromRequest(r).Merge(body)
	r = r.WithContext(log.ContextWithFingerprint(r.Context(), sig.Fingerprint()))
	p, rules, source := s.profileFor(r.Context(), sig, sourceBeacon)
	s.record(r, p, rules)
	s.respondProfile(w, r, sig, p, source)
}

// decodeSignals reads one JSON object. navigator.sendBeacon posts text/plain, so the
// content type is not trusted beyond the check in handleBeacon.
func decodeSignals(w http.ResponseWriter, r *http.Request) (capability.Signals, error) {
	var sig capability.Signals
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBeaconBytes))
	if err := dec.Decode(&sig); err != nil {
		if errors.Is(err, io.EOF) {
			return sig, errors.New("empty body")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return sig, errors.New("body too large")
		}
		return sig, errors.New("malformed JSON")
	}
	if dec.More() {
		return sig, errors.New("body must hold a single JSON object")
	}
	return sig, nil
}

// record stores the beacon outcome. Cache hits carry no rule trace and are stored
// with the profile only. A store failure never fails the request.
func (s *Server) record(r *http.Request, p capability.Profile, rules []string) {
	if s.deps.Reports == nil {
		return
	}
	err := s.deps.Reports.Record(r.Context(), reports.Report{
		Profile: p,
		Rules:   rules,
		Source:  sourceBeacon,
	})
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "reports")
		logger.Warn().Err(err).Str(log.FieldEvent, "report.write_failed").Msg("failed to record capability report")
	}
}

// handleSummary aggregates stored reports newer than ?since (a duration, default 24h).
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.deps.Reports == nil {
		writeError(w, r, http.StatusServiceUnavailable, codeReportsDisabled, "report store is not enabled")
		return
	}

	age := defaultSummaryAge
	if raw := r.URL.Query().Get(summaryQuerySince); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "since must be a positive duration such as 24h")
			return
		}
		age = d
	}
	if s.maxSummaryAge > 0 && age > s.maxSummaryAge {
		age = s.maxSummaryAge
	}

	sum, err := s.deps.Reports.Summary(r.Context(), time.Now().Add(-age))
	if err != nil {
		writeInternal(w, r, "reports", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
