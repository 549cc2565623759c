package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviebrowser_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "entity"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	RentalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_rentals_total",
			Help: "Total number of rental lifecycle operations",
		},
		[]string{"operation", "result"},
	)

	CatalogSearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviebrowser_catalog_search_duration_seconds",
			Help:    "Catalog search duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviebrowser_cache_hits_total",
			Help: "Number of catalog cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviebrowser_cache_misses_total",
			Help: "Number of catalog cache misses",
		},
	)
)

func RecordHttpRequest(method, endpoint, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordDatabaseOperation(operation, entity string) {
	DatabaseOperationsTotal.WithLabelValues(operation, entity).Inc()
}

func RecordLogin(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	LoginsTotal.WithLabelValues(result).Inc()
}

func RecordRental(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	RentalsTotal.WithLabelValues(operation, result).Inc()
}
