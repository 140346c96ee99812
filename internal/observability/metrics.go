package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ErrorsTotal      *prometheus.CounterVec
	StorageOpsTotal  *prometheus.CounterVec
	CatalogCacheHits *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novelistan_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "novelistan_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novelistan_http_errors_total",
				Help: "Total number of request errors by domain error code",
			},
			[]string{"method", "path", "code"},
		),
		StorageOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novelistan_storage_operations_total",
				Help: "Total number of asset storage operations",
			},
			[]string{"operation", "backend", "status"},
		),
		CatalogCacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novelistan_catalog_cache_requests_total",
				Help: "Catalog cache lookups by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.ErrorsTotal,
		m.StorageOpsTotal,
		m.CatalogCacheHits,
	)
	return m
}

// RecordRequest observes a completed request.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts a request that ended in a domain error.
func (m *Metrics) RecordError(method, path, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordStorageOp counts one storage backend operation.
func (m *Metrics) RecordStorageOp(operation, backend, status string) {
	if m == nil {
		return
	}
	m.StorageOpsTotal.WithLabelValues(operation, backend, status).Inc()
}

// RecordCatalogLookup counts a cache hit or miss.
func (m *Metrics) RecordCatalogLookup(hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CatalogCacheHits.WithLabelValues(outcome).Inc()
}

// Handler serves the Prometheus text exposition for this registry.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}))
}
