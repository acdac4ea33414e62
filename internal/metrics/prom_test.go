package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)
	SetBuildInfo("1.0.0", "abc", "2024-01-01")
	SetAssets(4, 2048)
	RecordRequest("/hello", 200, 2*time.Millisecond)
	RecordRequest("/hello", 200, time.Millisecond)
	RecordStatic(OutcomeFallback)
	RecordStatic(OutcomeNotFound)
	RecordStatic(OutcomeNotFound)

	if v := testutil.ToFloat64(buildInfo.WithLabelValues("2024-01-01", "abc", "1.0.0")); v != 1 {
		t.Fatalf("build info: %v", v)
	}
	if v := testutil.ToFloat64(assetsLoaded); v != 4 {
		t.Fatalf("assets loaded: %v", v)
	}
	if v := testutil.ToFloat64(assetsBytes); v != 2048 {
		t.Fatalf("assets bytes: %v", v)
	}
	if v := testutil.ToFloat64(httpRequests.WithLabelValues("/hello", "200")); v != 2 {
		t.Fatalf("http requests: %v", v)
	}
	if v := testutil.ToFloat64(staticResponses.WithLabelValues(OutcomeNotFound)); v != 2 {
		t.Fatalf("not found: %v", v)
	}
	if n := testutil.CollectAndCount(httpDuration); n != 1 {
		t.Fatalf("duration series: %d", n)
	}
}
