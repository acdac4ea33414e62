package server

import (
	_ "embed"
	"net/http"

	"github.com/gaspardpetit/spahost/core/logx"
)

//go:embed status.html
var statusHTML []byte

// StatusHandler serves the embedded operator page, which polls /state.
func StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(statusHTML); err != nil {
			logx.Log.Error().Err(err).Msg("write status page")
		}
	}
}
