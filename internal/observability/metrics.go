package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	auditWriteFailures     *prometheus.CounterVec
	stockMovementsTotal    *prometheus.CounterVec
	eventPublishFailures   *prometheus.CounterVec
	dashboardCacheTotal    *prometheus.CounterVec
	logoUploadLatency      prometheus.Histogram
	logoUploadRejectsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors exported by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padidoc_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "padidoc_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padidoc_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		auditWriteFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padidoc_audit_write_failures_total",
			Help: "Activity log writes that failed and were dropped.",
		}, []string{"action"})

		stockMovementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padidoc_stock_movements_total",
			Help: "Stock movements committed, by item and direction.",
		}, []string{"item", "type"})

		eventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padidoc_event_publish_failures_total",
			Help: "Domain events that could not be published to the broker.",
		}, []string{"subject"})

		dashboardCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padidoc_dashboard_cache_total",
			Help: "Dashboard cache lookups by result.",
		}, []string{"result"})

		logoUploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "padidoc_logo_upload_seconds",
			Help:    "Time spent validating and storing company logos.",
			Buckets: prometheus.DefBuckets,
		})

		logoUploadRejectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padidoc_logo_upload_rejected_total",
			Help: "Company logo uploads rejected by validation.",
		}, []string{"reason"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			auditWriteFailures,
			stockMovementsTotal,
			eventPublishFailures,
			dashboardCacheTotal,
			logoUploadLatency,
			logoUploadRejectsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AuditWriteFailures counts activity log entries that could not be stored.
func AuditWriteFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return auditWriteFailures
}

// StockMovements counts committed stock movements.
func StockMovements() *prometheus.CounterVec {
	RegisterMetrics()
	return stockMovementsTotal
}

// EventPublishFailures counts broker publish errors.
func EventPublishFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return eventPublishFailures
}

// DashboardCache counts dashboard cache hits and misses.
func DashboardCache() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheTotal
}

// LogoUploadLatency exposes the logo upload histogram.
func LogoUploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return logoUploadLatency
}

// LogoUploadRejected counts rejected logo uploads.
func LogoUploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return logoUploadRejectsTotal
}
