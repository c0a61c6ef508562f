// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of generated shopping list files",
		},
	)

	RelationshipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relationship_changes_total",
			Help: "Favorite, shopping cart and subscription changes by kind and action",
		},
		[]string{"kind", "action"},
	)
)

// RecordHTTPRequest records one completed request
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordShoppingListDownload() {
	ShoppingListDownloads.Inc()
}

// RecordRelationshipChange counts a successful add or remove of a link
func RecordRelationshipChange(kind, action string) {
	RelationshipChanges.WithLabelValues(kind, action).Inc()
}
