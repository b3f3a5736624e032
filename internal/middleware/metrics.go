package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toko_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toko_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toko_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)

	stockUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toko_stock_updates_total",
			Help: "Stock level updates by resulting stock status",
		},
		[]string{"status"},
	)

	eventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toko_events_consumed_total",
			Help: "Domain events consumed from the broker",
		},
		[]string{"type"},
	)
)

// Prometheus records request counts and latencies per route.
func Prometheus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		code := strconv.Itoa(status)

		httpRequestsTotal.WithLabelValues(c.Method(), path, code).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordOrderOperation counts an order operation and its outcome.
func RecordOrderOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

// RecordStockUpdate counts a stock update by the status it produced.
func RecordStockUpdate(status string) {
	stockUpdates.WithLabelValues(status).Inc()
}

// RecordEventConsumed counts one consumed broker event.
func RecordEventConsumed(eventType string) {
	eventsConsumed.WithLabelValues(eventType).Inc()
}
