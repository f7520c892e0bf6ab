// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Waterfall metrics
	AllocationsTotal   *prometheus.CounterVec
	AllocationDuration prometheus.Histogram
	ValidationFailures prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Recorder metrics
	RecordErrors *prometheus.CounterVec

	// HTTP metrics
	RateLimited prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "spv"
	}

	return &Metrics{
		AllocationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "waterfall",
			Name:      "allocations_total",
			Help:      "Total number of waterfall allocations by source and outcome class",
		}, []string{"source", "class"}),
		AllocationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "waterfall",
			Name:      "allocation_duration_seconds",
			Help:      "Time spent serving a run, including cache and recorder calls",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "waterfall",
			Name:      "validation_failures_total",
			Help:      "Total number of inputs rejected by strict validation",
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of result cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of result cache misses",
		}),

		RecordErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "errors_total",
			Help:      "Total number of failed run history writes by source",
		}, []string{"source"}),

		RateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAllocation records a completed run.
func RecordAllocation(source, class string, seconds float64, unixTime int64) {
	DefaultMetrics.AllocationsTotal.WithLabelValues(source, class).Inc()
	DefaultMetrics.AllocationDuration.Observe(seconds)
	DefaultMetrics.LastSuccessfulRun.Set(float64(unixTime))
}

// RecordValidationFailure increments the validation failures counter.
func RecordValidationFailure() {
	DefaultMetrics.ValidationFailures.Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		DefaultMetrics.CacheHits.Inc()
		return
	}
	DefaultMetrics.CacheMisses.Inc()
}

// RecordRecorderError increments the recorder error counter.
func RecordRecorderError(source string) {
	DefaultMetrics.RecordErrors.WithLabelValues(source).Inc()
}

// RecordRateLimited increments the rate limited counter.
func RecordRateLimited() {
	DefaultMetrics.RateLimited.Inc()
}
