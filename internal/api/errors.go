// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/studioedge/internal/log"
)

// Error codes carried in the "error" field of the envelope.
const (
	codeBadRequest       = "bad_request"
	codeInvalidSignals   = "invalid_signals"
	codeUnknownWidget    = "unknown_widget"
	codeAssetNotFound    = "asset_not_found"
	codeReportsDisabled  = "reports_disabled"
	codeInternal         = "internal_error"
	codeUnsupportedMedia = "unsupported_media_type"
)

// errorEnvelope is the body of every non-2xx JSON response.
type errorEnvelope struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	writeJSON(w, status, errorEnvelope{
		Error:     code,
		Detail:    detail,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}

// writeInternal logs err and hides it from the client.
func writeInternal(w http.ResponseWriter, r *http.Request, component string, err error) {
	logger := log.WithComponentFromContext(r.Context(), component)
	logger.Error().Err(err).Str(log.FieldEvent, "request.failed").Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, codeInternal, "")
}
