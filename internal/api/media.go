// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/studioedge/internal/capability"
	"github.com/ManuGH/studioedge/internal/log"
	"github.com/ManuGH/studioedge/internal/media"
	"github.com/ManuGH/studioedge/internal/metrics"
	"github.com/ManuGH/studioedge/internal/telemetry"
)

// MediaResponse is the resolved source of one catalog asset.
type MediaResponse struct {
	Asset    string         `json:"asset"`
	Source   media.Source   `json:"source"`
	Strategy media.Strategy `json:"strategy"`
	Poster   string         `json:"poster,omitempty"`
	Alt      string         `json:"alt,omitempty"`
}

// handleMedia resolves an asset for the requesting client. With ?redirect=1 it
// answers with a redirect to the chosen URL so it can back a src attribute.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "asset")
	catalog := s.Catalog()

	asset, ok := catalog.Get(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, codeAssetNotFound, "unknown media asset")
		return
	}

	sig := capability.FromRequest(r)
	p, _, _ := s.profileFor(r.Context(), sig, sourceHints)
	strategy := media.DeriveStrategy(p, sig.ReducedMotionRequested())

	src, err := catalog.Resolve(name, strategy)
	if errors.Is(err, media.ErrAssetNotFound) {
		writeError(w, r, http.StatusNotFound, codeAssetNotFound, "unknown media asset")
		return
	}
	if err != nil {
		writeInternal(w, r, "media", err)
		return
	}

	metrics.RecordMediaSource(string(src.Kind), string(src.Reason))
	trace.SpanFromContext(r.Context()).SetAttributes(
		telemetry.MediaAttributes(name, string(src.Kind), string(src.Reason), src.Degraded)...)
	if src.Degraded {
		logger := log.WithComponentFromContext(r.Context(), "media")
		logger.Debug().
			Str(log.FieldEvent, "media.degraded").
			Str(log.FieldAsset, name).
			Str(log.FieldQuality, string(src.Tier)).
			Str("reason", string(src.Reason)).
			Msg("served a lower media tier than requested")
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	if r.URL.Query().Get(redirectQueryParam) == "1" {
		http.Redirect(w, r, src.URL, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, MediaResponse{
		Asset:    asset.Name,
		Source:   src,
		Strategy: strategy,
		Poster:   asset.Poster,
		Alt:      asset.Alt,
	})
}
