package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware observes every request routed through the engine.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// BillingMetrics counts the business events the service exists to produce.
type BillingMetrics struct {
	OrdersPlaced        *prometheus.CounterVec
	Activations         *prometheus.CounterVec
	ActivationConflicts prometheus.Counter
}

func NewBillingMetrics(reg prometheus.Registerer) *BillingMetrics {
	m := &BillingMetrics{
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "billing_orders_placed_total",
			Help: "Orders placed, by payment gateway.",
		}, []string{"gateway"}),
		Activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "billing_activations_total",
			Help: "Successful plan activations, by billing cycle.",
		}, []string{"cycle"}),
		ActivationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billing_activation_conflicts_total",
			Help: "Activations rejected because the payment was already consumed.",
		}),
	}
	reg.MustRegister(m.OrdersPlaced, m.Activations, m.ActivationConflicts)
	return m
}
