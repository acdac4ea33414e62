package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gaspardpetit/spahost/core/logx"
	"github.com/gaspardpetit/spahost/internal/inflight"
	"github.com/gaspardpetit/spahost/internal/metrics"
)

// MiddlewareChain returns the middleware applied to every application
// request. counter may be nil.
func MiddlewareChain(counter *inflight.Counter) []func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{chiMiddleware.RequestID}
	if counter != nil {
		chain = append(chain, counter.Middleware)
	}
	return append(chain, requestLogger)
}

// requestLogger logs each request and records its metrics once the route
// pattern is known.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		if zerolog.GlobalLevel() <= zerolog.DebugLevel {
			logx.Log.Debug().Str("method", r.Method).Str("url", r.URL.String()).Interface("headers", r.Header).Msg("http request")
		}
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		metrics.RecordRequest(routePattern(r), status, elapsed)

		logx.Log.Info().
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", elapsed).
			Str("request_id", chiMiddleware.GetReqID(r.Context())).
			Msg("http")
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
