package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const service = "autoparts-api"

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)

	// OrdersTotal counts written orders by ledger kind and initial status
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of orders written",
		},
		[]string{"ledger", "status"},
	)

	// DiscountLookups counts discount code lookups by result (applied, invalid, error)
	DiscountLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discount_lookups_total",
			Help: "Total number of discount code lookups",
		},
		[]string{"result"},
	)

	// ReferralLookups counts referral code lookups by result (matched, unknown, error)
	ReferralLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_lookups_total",
			Help: "Total number of referral code lookups",
		},
		[]string{"result"},
	)

	// PaymentCaptures counts payment processor captures by result
	PaymentCaptures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_captures_total",
			Help: "Total number of payment capture attempts",
		},
		[]string{"result"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service", "circuit_name"},
	)

	// ActiveWatchers tracks open payment completion watchers
	ActiveWatchers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "payment_watchers_active",
			Help: "Number of open payment completion watchers",
		},
	)
)

// PrometheusMiddleware creates a Gin middleware for automatic metrics collection
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestsTotal.WithLabelValues(
			service,
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			service,
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}
