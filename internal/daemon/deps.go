// SPDX-License-Identifier: MIT

package daemon

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuGH/studioedge/internal/config"
)

// Deps is what NewManager needs to serve the edge API.
type Deps struct {
	Logger     zerolog.Logger
	Server     config.ServerConfig // listen address and timeouts
	APIHandler http.Handler
}

// Validate reports the first missing dependency. A logger set to zerolog.Disabled
// counts as missing since a silent daemon cannot be operated.
func (d *Deps) Validate() error {
	switch {
	case d.Logger.GetLevel() == zerolog.Disabled:
		return ErrMissingLogger
	case d.APIHandler == nil:
		return ErrMissingAPIHandler
	case strings.TrimSpace(d.Server.ListenAddr) == "":
		return ErrMissingListenAddr
	}
	return nil
}
