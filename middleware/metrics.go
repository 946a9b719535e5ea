package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "worker_marketplace",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "worker_marketplace",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	bookingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "worker_marketplace",
			Name:      "booking_slot_conflicts_total",
			Help:      "Booking requests rejected because the slot was taken.",
		},
	)
)

// MetricsMiddleware records request counts and latency
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// CountSlotConflict increments the slot conflict counter
func CountSlotConflict() {
	bookingConflicts.Inc()
}
