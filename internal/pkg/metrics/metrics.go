// Package metrics exposes HTTP and feedback counters for Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	Registry           *prometheus.Registry
	requests           *prometheus.CounterVec
	latency            *prometheus.HistogramVec
	feedbackSubmitted  prometheus.Counter
	bulkItemsProcessed *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		feedbackSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Feedback response sets accepted.",
		}),
		bulkItemsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bulk_upload_items_total",
			Help: "Bulk upload items by entity and outcome.",
		}, []string{"entity", "outcome"}),
	}
	reg.MustRegister(
		m.requests,
		m.latency,
		m.feedbackSubmitted,
		m.bulkItemsProcessed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records one sample per request keyed by the route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// FeedbackSubmitted counts one accepted submission. Safe on a nil receiver.
func (m *Metrics) FeedbackSubmitted() {
	if m == nil {
		return
	}
	m.feedbackSubmitted.Inc()
}

// BulkItems counts bulk upload outcomes. Safe on a nil receiver.
func (m *Metrics) BulkItems(entity string, succeeded, failed int) {
	if m == nil {
		return
	}
	m.bulkItemsProcessed.WithLabelValues(entity, "success").Add(float64(succeeded))
	m.bulkItemsProcessed.WithLabelValues(entity, "failed").Add(float64(failed))
}
