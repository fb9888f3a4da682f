package metrics

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "turndown_http_requests_total",
		Help: "HTTP requests processed, partitioned by method, route and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "turndown_http_request_duration_seconds",
		Help:    "HTTP request latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	SnapshotsBroadcast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "turndown_snapshots_broadcast_total",
		Help: "Snapshot frames fanned out to websocket subscribers.",
	}, []string{"kind"})

	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "turndown_ws_subscribers",
		Help: "Currently connected websocket subscribers.",
	})

	goroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "turndown_go_goroutines",
		Help: "Number of live goroutines.",
	})

	heapAlloc = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "turndown_go_heap_alloc_bytes",
		Help: "Bytes of allocated heap objects.",
	})
)

// Handler serves the prometheus scrape endpoint, refreshing runtime
// gauges on every scrape.
func Handler() http.Handler {
	inner := promhttp.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)

		goroutines.Set(float64(runtime.NumGoroutine()))
		heapAlloc.Set(float64(stats.Alloc))

		inner.ServeHTTP(w, r)
	})
}

func ObserveRequest(method, route string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, route, fmt.Sprintf("%d", status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
