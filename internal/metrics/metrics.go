package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPResponseSize      *prometheus.HistogramVec
	HTTPActiveConnections *prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitExceededTotal *prometheus.CounterVec

	// Viewing metrics
	VideoViewsRecordedTotal prometheus.Counter
	WatchHistoryUpdates     *prometheus.CounterVec

	// Engagement metrics
	SubaggregationFailures *prometheus.CounterVec
	TogglesTotal           *prometheus.CounterVec

	// Content metrics
	UploadsTotal        *prometheus.CounterVec
	ContentCreatedTotal *prometheus.CounterVec

	// Error metrics
	ErrorsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			// HTTP metrics
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPResponseSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			RateLimitExceededTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of requests rejected by the rate limiter",
				},
				[]string{"endpoint", "method"},
			),

			VideoViewsRecordedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "video_views_recorded_total",
					Help: "Total number of view counter increments committed",
				},
			),
			WatchHistoryUpdates: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "watch_history_updates_total",
					Help: "Watch history updates by outcome",
				},
				[]string{"result"},
			),

			SubaggregationFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "engagement_subaggregation_failures_total",
					Help: "Video detail sub-lookups that fell back to a neutral value",
				},
				[]string{"part"},
			),
			TogglesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "toggles_total",
					Help: "Like and subscription toggles by kind and resulting state",
				},
				[]string{"kind", "result"},
			),

			UploadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "media_uploads_total",
					Help: "Media uploads by kind and outcome",
				},
				[]string{"kind", "result"},
			),
			ContentCreatedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "content_created_total",
					Help: "Videos, comments, posts and playlists created",
				},
				[]string{"kind"},
			),

			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}

// RecordViewRecorded counts one committed view increment
func RecordViewRecorded() {
	Get().VideoViewsRecordedTotal.Inc()
}

// RecordHistoryUpdate counts a watch history update; result is "updated", "skipped" or "error"
func RecordHistoryUpdate(result string) {
	Get().WatchHistoryUpdates.WithLabelValues(result).Inc()
}

func RecordSubaggregationFailure(part string) {
	Get().SubaggregationFailures.WithLabelValues(part).Inc()
}

func RecordToggle(kind string, active bool) {
	result := "removed"
	if active {
		result = "added"
	}
	Get().TogglesTotal.WithLabelValues(kind, result).Inc()
}

// RecordUpload counts a media upload; result is "success" or "error"
func RecordUpload(kind string, result string) {
	Get().UploadsTotal.WithLabelValues(kind, result).Inc()
}

func RecordContentCreated(kind string) {
	Get().ContentCreatedTotal.WithLabelValues(kind).Inc()
}

func RecordError(errorType, endpoint string) {
	Get().ErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}
