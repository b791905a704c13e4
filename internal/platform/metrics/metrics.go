package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fitment_console"

// Metrics holds every Prometheus collector of the console. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Request metrics
	RequestDurationHistogram *prometheus.HistogramVec
	APIErrorCounter          *prometheus.CounterVec

	// Lifecycle metrics
	TransitionCounter       *prometheus.CounterVec
	UpdateConflictCounter   *prometheus.CounterVec
	CapabilityDeniedCounter *prometheus.CounterVec

	// Notification metrics
	NotificationCounter *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestDurationHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		APIErrorCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API responses with a 4xx or 5xx status",
			},
			[]string{"method", "path", "status"},
		),
		TransitionCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vehicle_transitions_total",
				Help:      "Total number of committed vehicle status transitions",
			},
			[]string{"from", "to"},
		),
		UpdateConflictCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vehicle_update_conflicts_total",
				Help:      "Total number of optimistic-lock conflicts on vehicle updates",
			},
			[]string{"operation"},
		),
		CapabilityDeniedCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "capability_denied_total",
				Help:      "Total number of operations rejected by the access policy",
			},
			[]string{"capability", "role"},
		),
		NotificationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of notification delivery attempts",
			},
			[]string{"event", "outcome"},
		),
	}
}

// Handler returns the HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.RequestDurationHistogram.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	if status >= http.StatusBadRequest {
		m.APIErrorCounter.WithLabelValues(method, path, code).Inc()
	}
}

// RecordTransition increments the transition counter.
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.TransitionCounter.WithLabelValues(from, to).Inc()
}

// RecordConflict increments the conflict counter for operation.
func (m *Metrics) RecordConflict(operation string) {
	if m == nil {
		return
	}
	m.UpdateConflictCounter.WithLabelValues(operation).Inc()
}

// RecordDenied increments the capability denial counter.
func (m *Metrics) RecordDenied(capability, role string) {
	if m == nil {
		return
	}
	m.CapabilityDeniedCounter.WithLabelValues(capability, role).Inc()
}

// RecordNotification increments the delivery counter; outcome is "sent" or "failed".
func (m *Metrics) RecordNotification(event, outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.NotificationCounter.WithLabelValues(event, outcome).Add(float64(n))
}
