package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Static handler outcomes.
const (
	OutcomeAsset    = "asset"
	OutcomeIndex    = "index"
	OutcomeFallback = "fallback"
	OutcomeNotFound = "not_found"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "spahost_build_info",
			Help:        "Build information",
			ConstLabels: prometheus.Labels{"component": "server"},
		},
		[]string{"date", "sha", "version"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spahost_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		},
		[]string{"route", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spahost_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"route"},
	)

	staticResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spahost_static_responses_total",
			Help: "Static handler responses by outcome",
		},
		[]string{"outcome"},
	)

	assetsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "spahost_assets_loaded",
			Help: "Number of files in the asset table",
		},
	)

	assetsBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "spahost_assets_bytes",
			Help: "Total size of the asset table in bytes",
		},
	)
)

// Register registers all spahost collectors with r.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, httpRequests, httpDuration, staticResponses, assetsLoaded, assetsBytes)
}

// SetBuildInfo sets the build info metric.
func SetBuildInfo(version, sha, date string) {
	buildInfo.WithLabelValues(date, sha, version).Set(1)
}

// SetAssets records the size of the asset table.
func SetAssets(count int, bytes int64) {
	assetsLoaded.Set(float64(count))
	assetsBytes.Set(float64(bytes))
}

// RecordRequest counts a finished request and observes its latency.
func RecordRequest(route string, code int, d time.Duration) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordStatic counts a static handler response.
func RecordStatic(outcome string) {
	staticResponses.WithLabelValues(outcome).Inc()
}
