// Package metrics exposes Prometheus metrics for the footy picker service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the registry and every collector the service reports.
type Manager struct {
	namespace      string
	registry       *prometheus.Registry
	runtimeMetrics bool

	picks           *prometheus.CounterVec
	pickDuration    prometheus.Histogram
	pickPartitions  prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	emailsFailed    prometheus.Counter
	autoPickSkipped prometheus.Counter
}

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers collectors on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) { m.runtimeMetrics = true }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "footy",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.runtimeMetrics {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.picks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "picker",
		Name:      "runs_total",
		Help:      "Picker runs by outcome",
	}, []string{"outcome"})

	m.pickDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "picker",
		Name:      "run_duration_seconds",
		Help:      "Wall time of a picker run including storage and email",
		Buckets:   prometheus.DefBuckets,
	})

	m.pickPartitions = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "picker",
		Name:      "partitions_evaluated",
		Help:      "Number of partitions evaluated by a successful split",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "method", "code"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	m.emailsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "email",
		Name:      "team_announcements_failed_total",
		Help:      "Team announcements that could not be delivered",
	})

	m.autoPickSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "picker",
		Name:      "auto_pick_skipped_total",
		Help:      "Scheduled auto picks that found nothing to do",
	})
}

// ObservePick records one picker run.
func (m *Manager) ObservePick(outcome string, duration time.Duration, partitions int) {
	m.picks.WithLabelValues(outcome).Inc()
	m.pickDuration.Observe(duration.Seconds())
	if partitions > 0 {
		m.pickPartitions.Observe(float64(partitions))
	}
}

// NotificationFailed counts a team announcement that could not be delivered.
func (m *Manager) NotificationFailed() {
	m.emailsFailed.Inc()
}

func (m *Manager) IncAutoPickSkipped() {
	m.autoPickSkipped.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument wraps next with request counting and latency for route.
func (m *Manager) Instrument(route string, next http.Handler) http.Handler {
	labels := prometheus.Labels{"route": route}
	return promhttp.InstrumentHandlerDuration(
		m.httpDuration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.httpRequests.MustCurryWith(labels), next),
	)
}
