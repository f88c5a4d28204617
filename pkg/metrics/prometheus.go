// Package metrics provides Prometheus metrics for the collab-dev report service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the collab-dev service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Report pipeline metrics
	reportRequests prometheus.Counter
	reportDuration prometheus.Histogram

	// Metric engine metrics, labelled by metric module name
	metricComputeDuration *prometheus.HistogramVec
	metricComputeErrors   *prometheus.CounterVec
	metricEmptyResults    *prometheus.CounterVec

	// Event store metrics
	eventsLoaded        prometheus.Histogram
	loadDuration        prometheus.Histogram
	loadErrors          prometheus.Counter
	rowsSkipped         prometheus.Counter
	repositoriesTracked prometheus.Gauge

	// Collector metrics
	collectorRequests prometheus.Counter
	collectorErrors   prometheus.Counter
	eventsCollected   prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "collabdev",
		subsystem:        "report",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.reportRequests = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Total number of report computations requested.",
	})
	m.reportDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_ms",
		Help:      "End-to-end report computation duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.metricComputeDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "compute_duration_ms",
		Help:      "Per-metric computation duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"metric"})
	m.metricComputeErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "compute_errors_total",
		Help:      "Per-metric contained computation failures.",
	}, []string{"metric"})
	m.metricEmptyResults = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "empty_results_total",
		Help:      "Per-metric computations that produced the no-data state.",
	}, []string{"metric"})

	m.eventsLoaded = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "events_loaded",
		Help:      "Number of event rows loaded per repository read.",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
	})
	m.loadDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "load_duration_ms",
		Help:      "Event log load duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.loadErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "load_errors_total",
		Help:      "Event log reads that failed entirely.",
	})
	m.rowsSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "rows_skipped_total",
		Help:      "Malformed CSV rows skipped during event log reads.",
	})
	m.repositoriesTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "repositories_tracked",
		Help:      "Number of repositories present in the data directory.",
	})

	m.collectorRequests = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "collector",
		Name:      "github_requests_total",
		Help:      "GitHub API calls issued by the collector.",
	})
	m.collectorErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "collector",
		Name:      "errors_total",
		Help:      "Collector fetch failures.",
	})
	m.eventsCollected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "collector",
		Name:      "events_total",
		Help:      "Lifecycle events derived and persisted by the collector.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// RecordReportRequest counts one report computation.
func RecordReportRequest() {
	if globalManager != nil && globalManager.enabled {
		globalManager.reportRequests.Inc()
	}
}

// RecordReportDuration records the end-to-end report duration.
func RecordReportDuration(ms float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.reportDuration.Observe(ms)
	}
}

// RecordMetricComputeDuration records one metric module's compute time.
func RecordMetricComputeDuration(metric string, ms float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.metricComputeDuration.WithLabelValues(metric).Observe(ms)
	}
}

// RecordMetricComputeError counts a contained metric failure.
func RecordMetricComputeError(metric string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.metricComputeErrors.WithLabelValues(metric).Inc()
	}
}

// RecordMetricEmptyResult counts a metric that produced no data.
func RecordMetricEmptyResult(metric string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.metricEmptyResults.WithLabelValues(metric).Inc()
	}
}

// RecordEventsLoaded records the row count of one event log read.
func RecordEventsLoaded(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.eventsLoaded.Observe(float64(count))
	}
}

// RecordLoadDuration records one event log read duration.
func RecordLoadDuration(ms float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.loadDuration.Observe(ms)
	}
}

// RecordLoadError counts a failed event log read.
func RecordLoadError() {
	if globalManager != nil && globalManager.enabled {
		globalManager.loadErrors.Inc()
	}
}

// RecordRowSkipped counts a malformed CSV row dropped by the reader.
func RecordRowSkipped() {
	if globalManager != nil && globalManager.enabled {
		globalManager.rowsSkipped.Inc()
	}
}

// UpdateRepositoriesTracked sets the repository count gauge.
func UpdateRepositoriesTracked(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.repositoriesTracked.Set(float64(count))
	}
}

// RecordCollectorRequest counts one GitHub API call.
func RecordCollectorRequest() {
	if globalManager != nil && globalManager.enabled {
		globalManager.collectorRequests.Inc()
	}
}

// RecordCollectorError counts one collector fetch failure.
func RecordCollectorError() {
	if globalManager != nil && globalManager.enabled {
		globalManager.collectorErrors.Inc()
	}
}

// RecordEventsCollected counts events persisted by the collector.
func RecordEventsCollected(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.eventsCollected.Add(float64(count))
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
