// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	UploadsStarted  *prometheus.CounterVec
	UploadsFinished *prometheus.CounterVec
	ChunksRecorded  prometheus.Counter
	SocketClients   prometheus.Gauge
	SocketDropped   prometheus.Counter
	Notifications   *prometheus.CounterVec
	PushDeliveries  *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "friendflix_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "friendflix_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UploadsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "friendflix_media_uploads_started_total",
			Help: "Media uploads initialized by upload type.",
		}, []string{"upload_type"}),
		UploadsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "friendflix_media_uploads_finalized_total",
			Help: "Media uploads finalized by upload type.",
		}, []string{"upload_type"}),
		ChunksRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "friendflix_media_chunks_recorded_total",
			Help: "Chunk upload receipts recorded.",
		}),
		SocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "friendflix_socket_clients",
			Help: "Connected WebSocket clients on this instance.",
		}),
		SocketDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "friendflix_socket_events_dropped_total",
			Help: "Real-time events dropped because a client buffer was full.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "friendflix_notifications_created_total",
			Help: "Notifications persisted by type.",
		}, []string{"type"}),
		PushDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "friendflix_push_deliveries_total",
			Help: "Web push attempts by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.UploadsStarted, m.UploadsFinished,
		m.ChunksRecorded, m.SocketClients, m.SocketDropped,
		m.Notifications, m.PushDeliveries,
	)
	return m
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry for Prometheus scraping.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
