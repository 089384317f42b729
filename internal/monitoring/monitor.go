// Package monitoring exposes operational metrics for the POS service.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor collects and provides metrics for the service. It owns its own
// registry so tests can create monitors independently.
type Monitor struct {
	registry *prometheus.Registry

	ordersCreated   prometheus.Counter
	ordersCompleted prometheus.Counter
	ordersCancelled prometheus.Counter
	revenue         prometheus.Counter
	itemTransitions *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMonitor creates a new monitoring instance with all collectors
// registered.
func NewMonitor() *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maitred_orders_created_total",
			Help: "Number of orders created.",
		}),
		ordersCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maitred_orders_completed_total",
			Help: "Number of orders completed.",
		}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maitred_orders_cancelled_total",
			Help: "Number of orders cancelled.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maitred_revenue_kip_total",
			Help: "Revenue from completed orders, in Lao Kip.",
		}),
		itemTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maitred_item_status_transitions_total",
			Help: "Order item status transitions by target status.",
		}, []string{"status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "maitred_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.ordersCreated,
		m.ordersCompleted,
		m.ordersCancelled,
		m.revenue,
		m.itemTransitions,
		m.requestDuration,
	)
	return m
}

// Handler returns the /metrics HTTP handler for this monitor's registry.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordOrderCreated records a newly created order.
func (m *Monitor) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordOrderCompleted records a completed order and its revenue.
func (m *Monitor) RecordOrderCompleted(total float64) {
	if m == nil {
		return
	}
	m.ordersCompleted.Inc()
	if total > 0 {
		m.revenue.Add(total)
	}
}

// RecordOrderCancelled records a cancelled order.
func (m *Monitor) RecordOrderCancelled() {
	if m == nil {
		return
	}
	m.ordersCancelled.Inc()
}

// RecordItemTransition records an item moving to the given status.
func (m *Monitor) RecordItemTransition(status string) {
	if m == nil {
		return
	}
	m.itemTransitions.WithLabelValues(status).Inc()
}

// Middleware returns a gin middleware that times every request.
func (m *Monitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
