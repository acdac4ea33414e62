package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gaspardpetit/spahost/internal/api"
	"github.com/gaspardpetit/spahost/internal/assets"
	"github.com/gaspardpetit/spahost/internal/config"
	"github.com/gaspardpetit/spahost/internal/inflight"
	"github.com/gaspardpetit/spahost/internal/metrics"
	"github.com/gaspardpetit/spahost/internal/serverstate"
	"github.com/gaspardpetit/spahost/internal/spa"
)

// Deps carries the process-wide collaborators shared by both listeners.
type Deps struct {
	Table      *assets.Table
	Tracker    *serverstate.Tracker
	Inflight   *inflight.Counter
	Registry   *prometheus.Registry
	Version    string
	InstanceID string
	StartedAt  time.Time
}

func (d *Deps) setDefaults() {
	if d.Tracker == nil {
		d.Tracker = serverstate.NewTracker(nil)
	}
	if d.Inflight == nil {
		d.Inflight = &inflight.Counter{}
	}
	if d.Registry == nil {
		d.Registry = NewRegistry()
	}
	if d.StartedAt.IsZero() {
		d.StartedAt = time.Now()
	}
}

// NewRegistry returns a Prometheus registry with the spahost and Go runtime
// collectors registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)
	return reg
}

// New constructs the application handler: GET /hello plus the single-page
// application catch-all. When cfg.MetricsShared() the operations endpoints
// are mounted on it as well.
func New(cfg config.ServerConfig, deps Deps) http.Handler {
	deps.setDefaults()
	r := chi.NewRouter()
	if len(cfg.AllowedOrigins) > 0 {
		if slices.Contains(cfg.AllowedOrigins, "*") {
			r.Use(allowAnyOrigin)
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: cfg.AllowedMethods,
			AllowedHeaders: []string{"*"},
		}))
	}
	for _, m := range api.MiddlewareChain(deps.Inflight) {
		r.Use(m)
	}

	r.Get("/hello", api.Hello)
	r.Head("/hello", api.Hello)
	if cfg.MetricsShared() {
		mountOps(r, cfg, deps)
	}

	static := spa.New(deps.Table, cfg.IndexFile)
	r.Handle("/*", static)
	r.NotFound(static.ServeHTTP)

	return r
}

// allowAnyOrigin stamps Access-Control-Allow-Origin: * on every response,
// including requests without an Origin header and preflights for methods
// cors.Handler rejects.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// NewOps constructs the handler for the operations listener.
func NewOps(cfg config.ServerConfig, deps Deps) http.Handler {
	deps.setDefaults()
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	mountOps(r, cfg, deps)
	return r
}

func mountOps(r chi.Router, cfg config.ServerConfig, deps Deps) {
	state := &api.StateHandler{
		Table:      deps.Table,
		IndexFile:  cfg.IndexFile,
		Tracker:    deps.Tracker,
		Inflight:   deps.Inflight,
		InstanceID: deps.InstanceID,
		Version:    deps.Version,
		StartedAt:  deps.StartedAt,
	}
	r.Get("/healthz", state.GetHealthz)
	r.Get("/state", state.GetState)
	r.Get("/status", StatusHandler())
	r.Get("/openapi.json", api.OpenAPIHandler(deps.Version))
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
