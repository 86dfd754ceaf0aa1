package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Pipeline
	uploads           *prometheus.CounterVec
	stageLatency      *prometheus.HistogramVec
	stageErrors       *prometheus.CounterVec
	uploadSize        prometheus.Histogram
	datasetRows       *prometheus.GaugeVec
	selectedLeaders   prometheus.Gauge
	encodingFallbacks prometheus.Counter
	exports           *prometheus.CounterVec

	// Batch
	batchQueueDepth prometheus.Gauge
	batchJobs       *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "criatividade",
		subsystem:        "dashboard",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// SetGlobal replaces the manager behind the package-level Record functions.
// When the manager registers on a *prometheus.Registry, GetRegistry serves it
// from then on.
func SetGlobal(m *Manager) {
	if m == nil {
		return
	}
	globalManager = m
	if reg, ok := m.registry.(*prometheus.Registry); ok {
		customRegistry = reg
	}
}

// Global returns the manager behind the package-level Record functions.
func Global() *Manager { return globalManager }

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is the sampling period used by RunSystemCollector.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.uploads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("uploads_total"),
		Help:        "Analyzed uploads by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.stageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("stage_duration_milliseconds"),
		Help:        "Pipeline stage latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.stageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("stage_errors_total"),
		Help:        "Pipeline failures by stage and error code",
		ConstLabels: labels,
	}, []string{"stage", "code"})

	m.uploadSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("upload_size_bytes"),
		Help:        "Size of uploaded CSV files",
		Buckets:     prometheus.ExponentialBuckets(1024, 4, 10),
		ConstLabels: labels,
	})

	m.datasetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_rows"),
		Help:        "Rows in the last analyzed table, before and after filtering",
		ConstLabels: labels,
	}, []string{"phase"})

	m.selectedLeaders = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("selected_leaders"),
		Help:        "Leaders kept by the last filter",
		ConstLabels: labels,
	})

	m.encodingFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("encoding_fallbacks_total"),
		Help:        "Uploads decoded with the Latin-1 fallback",
		ConstLabels: labels,
	})

	m.exports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("exports_total"),
		Help:        "Dashboard exports by format",
		ConstLabels: labels,
	}, []string{"format"})

	m.batchQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("batch_queue_depth"),
		Help:        "Batch report jobs waiting for a worker",
		ConstLabels: labels,
	})

	m.batchJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("batch_jobs_total"),
		Help:        "Batch report jobs by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_errors_total"),
		Help:        "HTTP error responses by endpoint, method, type and severity",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "Heap bytes allocated",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// RecordUpload counts one analyzed upload.
func RecordUpload(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.uploads.WithLabelValues(outcome).Inc()
}

// RecordStageLatency records how long a pipeline stage took.
func RecordStageLatency(stage string, d time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.stageLatency.WithLabelValues(stage).Observe(float64(d) / float64(time.Millisecond))
}

// RecordStageError counts a failed pipeline stage.
func RecordStageError(stage, code string) {
	if !globalManager.enabled {
		return
	}
	globalManager.stageErrors.WithLabelValues(stage, code).Inc()
}

// RecordUploadSize observes an upload's byte size.
func RecordUploadSize(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.uploadSize.Observe(float64(n))
}

// UpdateDatasetRows sets the raw and filtered row gauges.
func UpdateDatasetRows(raw, filtered int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetRows.WithLabelValues("raw").Set(float64(raw))
	globalManager.datasetRows.WithLabelValues("filtered").Set(float64(filtered))
}

// UpdateSelectedLeaders sets the selected leader gauge.
func UpdateSelectedLeaders(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.selectedLeaders.Set(float64(n))
}

// RecordEncodingFallback counts a Latin-1 decode.
func RecordEncodingFallback() {
	if !globalManager.enabled {
		return
	}
	globalManager.encodingFallbacks.Inc()
}

// RecordExport counts an export in the given format.
func RecordExport(format string) {
	if !globalManager.enabled {
		return
	}
	globalManager.exports.WithLabelValues(format).Inc()
}

// UpdateBatchQueueDepth sets the number of queued batch jobs.
func UpdateBatchQueueDepth(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchQueueDepth.Set(float64(n))
}

// RecordBatchJob counts one finished batch job.
func RecordBatchJob(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchJobs.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// CollectSystemMetrics samples runtime memory, goroutine and GC figures once.
func CollectSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	UpdateSystemMemoryUsage(m.Alloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		RecordSystemGCPauseTime(float64(m.PauseTotalNs) / float64(m.NumGC) / float64(time.Millisecond))
	}
}

// RunSystemCollector samples runtime metrics every refresh interval until ctx ends.
// It returns at once when recording is disabled.
func RunSystemCollector(ctx context.Context) {
	if !globalManager.enabled {
		return
	}
	ticker := time.NewTicker(globalManager.refreshInterval)
	defer ticker.Stop()
	CollectSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CollectSystemMetrics()
		}
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
