// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"

	"github.com/ManuGH/studioedge/internal/capability"
)

// ClientHints asks browsers to send the capability hints on later requests and marks
// responses as varying on them. Save-Data and ECT are also requested as critical so
// the first navigation is retried with them.
func ClientHints(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Accept-CH", capability.AcceptCH)
		h.Set("Critical-CH", capability.HeaderSaveData+", "+capability.HeaderECT)
		h.Add("Vary", capability.AcceptCH)
		next.ServeHTTP(w, r)
	})
}
