package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Upstream fetch rate per variant. Watch for: error vs success ratio.
	FetchTotal *prometheus.CounterVec

	// Upstream fetch latency. Watch for: p95 approaching the 12s timeout.
	FetchDuration *prometheus.HistogramVec

	// Invocations served from the cache after a failed fetch. A climbing rate
	// means the upstream is down and the widget is coasting on old data.
	CacheFallbackTotal *prometheus.CounterVec

	// Cache persist failures. Swallowed by design, so this counter is the
	// only place they show up.
	CacheWriteFailuresTotal *prometheus.CounterVec

	// HTTP request rate for serve mode.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency for serve mode.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent serve-mode requests in flight.
	HTTPRequestsInFlight prometheus.Gauge

	// Rate limit denials in serve mode.
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherFetchTotal",
			Help: "Total upstream weather API fetches",
		},
		[]string{"variant", "status"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherFetchDurationSeconds",
			Help:    "Upstream fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"variant"},
	)
	CacheFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheFallbackServesTotal",
			Help: "Invocations that served cached data after a failed fetch",
		},
		[]string{"variant"},
	)
	CacheWriteFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheWriteFailuresTotal",
			Help: "Cache persist failures (non-fatal)",
		},
		[]string{"variant"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Requests denied by the rate limiter",
		},
	)

	registry.MustRegister(
		FetchTotal,
		FetchDuration,
		CacheFallbackTotal,
		CacheWriteFailuresTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestsInFlight,
		RateLimitDeniedTotal,
	)
}

// MetricsHandler exposes the private registry for the /metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
