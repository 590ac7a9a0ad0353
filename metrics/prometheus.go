package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	checkoutsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_checkouts_created_total",
			Help: "Total number of checkout sessions issued",
		},
		[]string{"method"},
	)

	paymentProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_processed_total",
			Help: "Total number of payment state changes committed",
		},
		[]string{"method", "status"},
	)

	callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Total number of gateway callbacks by outcome",
		},
		[]string{"outcome"},
	)

	invoicesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_issued_total",
			Help: "Total number of invoices issued",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(checkoutsCreatedTotal)
	prometheus.MustRegister(paymentProcessedTotal)
	prometheus.MustRegister(callbacksTotal)
	prometheus.MustRegister(invoicesIssuedTotal)
}

// Callback outcomes.
const (
	CallbackSucceeded    = "succeeded"
	CallbackFailed       = "failed"
	CallbackDuplicate    = "duplicate"
	CallbackRejected     = "rejected"
	CallbackUnresolvable = "unresolvable"
	CallbackPersistError = "persist_error"
)

func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordCheckoutCreated(method string) {
	checkoutsCreatedTotal.WithLabelValues(method).Inc()
}

func RecordPayment(method, status string) {
	paymentProcessedTotal.WithLabelValues(method, status).Inc()
}

func RecordCallback(outcome string) {
	callbacksTotal.WithLabelValues(outcome).Inc()
}

func RecordInvoiceIssued() {
	invoicesIssuedTotal.Inc()
}
