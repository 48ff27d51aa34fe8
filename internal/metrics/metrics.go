package metrics

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const divisor = 100

// Metrics defines all Prometheus metrics for the footer service.
type Metrics struct {
	registry *prometheus.Registry

	// RED (Rate, Errors, Duration) for HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	// Widget
	WidgetTransitions *prometheus.CounterVec // by from, to
	WidgetSubmissions *prometheus.CounterVec // by result
	ActiveWidgets     prometheus.Gauge
	WidgetsSwept      prometheus.Counter

	// Subscriber lifecycle
	SubscribersCreated   prometheus.Counter
	SubscribersConfirmed prometheus.Counter
	SubscribersCanceled  prometheus.Counter

	// Cache
	CacheOperationDuration *prometheus.HistogramVec
	CacheOperations        *prometheus.CounterVec

	RabbitPublishTotal    *prometheus.CounterVec // by routing_key, result
	ConsumerMessagesTotal *prometheus.CounterVec // by event, result
	ServiceUptime         prometheus.Gauge

	BusinessErrors  *prometheus.CounterVec
	TechnicalErrors *prometheus.CounterVec
}

// NewMetrics creates all metrics under namespace in a private registry.
func NewMetrics(namespace string) *Metrics {
	errorLabels := []string{"error_type", "severity"}
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests total",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "In-flight HTTP requests",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		WidgetTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "widget_transitions_total",
				Help:      "Newsletter widget state transitions",
			},
			[]string{"from", "to"},
		),
		WidgetSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "widget_submissions_total",
				Help:      "Newsletter widget submissions by result",
			},
			[]string{"result"},
		),
		ActiveWidgets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "widgets_active",
				Help:      "Session widgets currently held in memory",
			},
		),
		WidgetsSwept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "widgets_swept_total",
				Help:      "Idle session widgets torn down by the sweeper",
			},
		),

		SubscribersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscribers_created_total",
				Help:      "Newsletter subscribers created",
			},
		),
		SubscribersConfirmed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscribers_confirmed_total",
				Help:      "Newsletter subscribers confirmed",
			},
		),
		SubscribersCanceled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscribers_canceled_total",
				Help:      "Newsletter subscribers unsubscribed",
			},
		),

		CacheOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_operation_duration_seconds",
				Help:      "Cache operation latencies",
			},
			[]string{"operation"},
		),
		CacheOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Cache operation counts",
			},
			[]string{"operation", "result"},
		),

		RabbitPublishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rabbitmq_publish_total",
				Help:      "RabbitMQ messages published",
			},
			[]string{"routing_key", "result"},
		),
		ConsumerMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "consumer_messages_total",
				Help:      "RabbitMQ deliveries handled by the consume command",
			},
			[]string{"event", "result"},
		),
		ServiceUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_start_time_seconds",
				Help:      "Unix time the service started",
			},
		),

		BusinessErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "business_errors_total",
				Help:      "Total business errors",
			},
			errorLabels,
		),
		TechnicalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "technical_errors_total",
				Help:      "Total technical errors",
			},
			errorLabels,
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestsInFlight,
		m.HTTPRequestDuration,
		m.WidgetTransitions,
		m.WidgetSubmissions,
		m.ActiveWidgets,
		m.WidgetsSwept,
		m.SubscribersCreated,
		m.SubscribersConfirmed,
		m.SubscribersCanceled,
		m.CacheOperationDuration,
		m.CacheOperations,
		m.RabbitPublishTotal,
		m.ConsumerMessagesTotal,
		m.ServiceUptime,
		m.BusinessErrors,
		m.TechnicalErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m.ServiceUptime.SetToCurrentTime()

	return m
}

// RegisterDB exposes database/sql pool statistics.
func (m *Metrics) RegisterDB(db *sql.DB, dbName string) {
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, dbName))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HTTPMiddleware instruments Gin HTTP handlers for RED metrics.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		dur := time.Since(start).Seconds()
		status := c.Writer.Status()
		statusClass := fmt.Sprintf("%dxx", status/divisor)

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), statusClass).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).Observe(dur)
	}
}

func (m *Metrics) ObserveTransition(from, to string) {
	m.WidgetTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveSubmission(result string) {
	m.WidgetSubmissions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSweep(removed, remaining int) {
	m.WidgetsSwept.Add(float64(removed))
	m.ActiveWidgets.Set(float64(remaining))
}

func (m *Metrics) ObserveLatency(operation string, d time.Duration) {
	m.CacheOperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) IncrementCounter(operation, result string) {
	m.CacheOperations.WithLabelValues(operation, result).Inc()
}

// RecordRabbitPublish counts a publish attempt as "ok" or "error".
func (m *Metrics) RecordRabbitPublish(routingKey string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RabbitPublishTotal.WithLabelValues(routingKey, result).Inc()
}
