// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/studioedge/internal/widget"
)

// WidgetResponse describes a widget without loading it.
type WidgetResponse struct {
	Type    widget.Type `json:"type"`
	HTML    string      `json:"html"`
	Scripts []string    `json:"scripts"`
}

// LoadResponse is the outcome of a load. A failed load is still a 200: the page
// decides whether to offer a retry.
type LoadResponse struct {
	Type      widget.Type `json:"type"`
	OK        bool        `json:"ok"`
	HTML      string      `json:"html,omitempty"`
	Scripts   []string    `json:"scripts,omitempty"`
	Retryable bool        `json:"retryable"`
	Error     string      `json:"error,omitempty"`
}

// ScriptsResponse lists the registry state and the head markup of loaded scripts.
type ScriptsResponse struct {
	Scripts []widget.URLState `json:"scripts"`
	Head    string            `json:"head"`
}

func (s *Server) handleGetWidget(w http.ResponseWriter, r *http.Request) {
	t := widget.ParseType(chi.URLParam(r, "type"))
	cfg, ok := s.deps.Widgets.Config(t)
	if !ok {
		writeError(w, r, http.StatusNotFound, codeUnknownWidget, "unknown widget type")
		return
	}
	writeJSON(w, http.StatusOK, WidgetResponse{
		Type:    t,
		HTML:    widget.CreateWidgetHTML(cfg),
		Scripts: append([]string{}, cfg.Scripts...),
	})
}

func (s *Server) handleLoadWidget(w http.ResponseWriter, r *http.Request) {
	t := widget.ParseType(chi.URLParam(r, "type"))

	var frag widget.Fragment
	res := s.deps.Widgets.LoadWidget(r.Context(), t, &frag)
	if errors.Is(res.Err, widget.ErrUnknownWidget) {
		writeError(w, r, http.StatusNotFound, codeUnknownWidget, "unknown widget type")
		return
	}

	out := LoadResponse{
		Type:      res.Type,
		OK:        res.OK,
		HTML:      frag.HTML(),
		Scripts:   res.Scripts,
		Retryable: res.Retryable(),
	}
	if res.Err != nil {
		out.Error = "widget scripts failed to load"
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScripts(w http.ResponseWriter, _ *http.Request) {
	resp := ScriptsResponse{Scripts: s.deps.Widgets.Registry().Snapshot()}
	if s.deps.Document != nil {
		resp.Head = s.deps.Document.HeadHTML()
	}
	writeJSON(w, http.StatusOK, resp)
}
