package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/result-processing-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic, the
// cache and the result workflow.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	scoresRecorded  *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	gpaComputations *prometheus.CounterVec
	importRows      *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by outcome",
	}, []string{"outcome"})

	scoresRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "result_scores_recorded_total",
		Help: "Scores written through the upload path",
	}, []string{"action"})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "result_transitions_total",
		Help: "Results moved to a new lifecycle status",
	}, []string{"status"})

	gpaComputations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gpa_computations_total",
		Help: "GPA snapshot recomputations by outcome",
	}, []string{"outcome"})

	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "result_import_rows_total",
		Help: "CSV score-sheet rows by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		scoresRecorded, transitions, gpaComputations, importRows, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		scoresRecorded:  scoresRecorded,
		transitions:     transitions,
		gpaComputations: gpaComputations,
		importRows:      importRows,
	}
}

// TrackQueueDepth exports depth as the pending job count of a named queue.
func (m *MetricsService) TrackQueueDepth(queue string, depth func() int) {
	if m == nil || depth == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "job_queue_pending",
		Help:        "Keyed jobs waiting or retrying in a background queue",
		ConstLabels: prometheus.Labels{"queue": queue},
	}, func() float64 {
		return float64(depth())
	}))
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveCacheWrite tracks the duration of cache writes.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordScore counts a score upload; created distinguishes inserts from corrections.
func (m *MetricsService) RecordScore(created bool) {
	if m == nil {
		return
	}
	if created {
		m.scoresRecorded.WithLabelValues("created").Inc()
		return
	}
	m.scoresRecorded.WithLabelValues("updated").Inc()
}

// RecordTransitions counts results moved into status.
func (m *MetricsService) RecordTransitions(status models.ResultStatus, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.transitions.WithLabelValues(string(status)).Add(float64(count))
}

// RecordGPAComputation counts a GPA recomputation.
func (m *MetricsService) RecordGPAComputation(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.gpaComputations.WithLabelValues("failed").Inc()
		return
	}
	m.gpaComputations.WithLabelValues("ok").Inc()
}

// RecordImportRows counts imported and rejected CSV rows.
func (m *MetricsService) RecordImportRows(uploaded, failed int) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues("uploaded").Add(float64(uploaded))
	m.importRows.WithLabelValues("failed").Add(float64(failed))
}
