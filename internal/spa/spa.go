// Package spa serves a single-page application out of an asset table.
//
// Resolution for a request path p (leading slash removed):
//
//   - p is empty or names the index document: serve the index document.
//   - p is in the table: serve it with its guessed MIME type.
//   - p contains a dot: it looks like a file, so 404.
//   - otherwise p is treated as a client-side route and gets the index document.
//
// A missing index document turns every index response into a 404.
package spa

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gaspardpetit/spahost/core/logx"
	"github.com/gaspardpetit/spahost/internal/assets"
	"github.com/gaspardpetit/spahost/internal/metrics"
)

// DefaultIndex is the conventional index document name.
const DefaultIndex = "index.html"

// NotFoundBody is the body of every 404 response.
const NotFoundBody = "404"

// Handler resolves request paths against an asset table.
type Handler struct {
	table *assets.Table
	index string
}

// New returns a Handler over table. An empty index selects DefaultIndex.
func New(table *assets.Table, index string) *Handler {
	if index == "" {
		index = DefaultIndex
	}
	return &Handler{table: table, index: strings.TrimPrefix(index, "/")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Percent-decoded path: /a%20b.js looks up "a b.js".
	p := strings.TrimPrefix(r.URL.Path, "/")

	if p == "" || p == h.index {
		h.serveIndex(w, metrics.OutcomeIndex)
		return
	}
	if e, ok := h.table.Get(p); ok {
		metrics.RecordStatic(metrics.OutcomeAsset)
		write(w, http.StatusOK, e.ContentType, e.Data)
		return
	}
	if strings.Contains(p, ".") {
		h.notFound(w)
		return
	}
	h.serveIndex(w, metrics.OutcomeFallback)
}

func (h *Handler) serveIndex(w http.ResponseWriter, outcome string) {
	e, ok := h.table.Get(h.index)
	if !ok {
		h.notFound(w)
		return
	}
	metrics.RecordStatic(outcome)
	write(w, http.StatusOK, e.ContentType, e.Data)
}

func (h *Handler) notFound(w http.ResponseWriter) {
	metrics.RecordStatic(metrics.OutcomeNotFound)
	write(w, http.StatusNotFound, "text/plain; charset=utf-8", []byte(NotFoundBody))
}

func write(w http.ResponseWriter, code int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logx.Log.Error().Err(err).Msg("write static response")
	}
}
