package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the service's prometheus collectors. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	logins        *prometheus.CounterVec
	sweepRuns     *prometheus.CounterVec
	sweepClosed   prometheus.Counter
	sweepDuration prometheus.Histogram
	notifications *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "placement_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_http_errors_total",
			Help: "Error responses by route and error code.",
		}, []string{"path", "method", "code"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_logins_total",
			Help: "Login attempts by principal class and outcome.",
		}, []string{"class", "outcome"}),
		sweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_sweep_runs_total",
			Help: "Expiry sweep runs by outcome.",
		}, []string{"outcome"}),
		sweepClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "placement_sweep_closed_postings_total",
			Help: "Postings closed by the expiry sweep.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "placement_sweep_duration_seconds",
			Help:    "Expiry sweep duration.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2.0, 10),
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_notifications_total",
			Help: "Notifications written by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.errors, m.logins,
		m.sweepRuns, m.sweepClosed, m.sweepDuration, m.notifications,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(class, outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(class, outcome).Inc()
}

// RecordSweep records one sweep run.
func (m *Metrics) RecordSweep(closed int64, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.sweepRuns.WithLabelValues(outcome).Inc()
	m.sweepClosed.Add(float64(closed))
	m.sweepDuration.Observe(duration.Seconds())
}

// RecordNotifications counts notifications written.
func (m *Metrics) RecordNotifications(kind string, count int64) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Add(float64(count))
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
