// Package telemetry holds the Prometheus metrics and OpenTelemetry tracer
// used across floatkit.
//
// A nil *Metrics is valid and records nothing, so widgets can be created
// without any metrics setup.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "floatkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "floatkit",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records widget lifecycle counters.
type Metrics struct {
	poppersCreated  *prometheus.CounterVec
	poppersDisposed *prometheus.CounterVec
	poppersLive     *prometheus.GaugeVec
	transitions     *prometheus.CounterVec
	scrollLocks     prometheus.Gauge
	scrollLockHolds prometheus.Counter
}

// NewMetrics registers the floatkit metrics.
// Registering twice against the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		poppersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "poppers_created_total",
			Help:        "Popper controller instances constructed",
			ConstLabels: config.ConstLabels,
		}, []string{"widget"}),

		poppersDisposed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "poppers_disposed_total",
			Help:        "Popper controller instances disposed",
			ConstLabels: config.ConstLabels,
		}, []string{"widget"}),

		poppersLive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "poppers_live",
			Help:        "Popper controller instances currently installed",
			ConstLabels: config.ConstLabels,
		}, []string{"widget"}),

		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transitions_total",
			Help:        "Disclosure state transitions by target state",
			ConstLabels: config.ConstLabels,
		}, []string{"widget", "state"}),

		scrollLocks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scroll_locks_held",
			Help:        "Outstanding scroll lock acquisitions",
			ConstLabels: config.ConstLabels,
		}),

		scrollLockHolds: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scroll_lock_acquisitions_total",
			Help:        "Scroll lock acquisitions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// PopperCreated records a popper construction for widget.
func (m *Metrics) PopperCreated(widget string) {
	if m == nil {
		return
	}
	m.poppersCreated.WithLabelValues(widget).Inc()
	m.poppersLive.WithLabelValues(widget).Inc()
}

// PopperDisposed records a popper disposal for widget.
func (m *Metrics) PopperDisposed(widget string) {
	if m == nil {
		return
	}
	m.poppersDisposed.WithLabelValues(widget).Inc()
	m.poppersLive.WithLabelValues(widget).Dec()
}

// Transition records a state transition.
func (m *Metrics) Transition(widget, state string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(widget, state).Inc()
}

// ScrollLockAcquired records a scroll lock acquisition.
func (m *Metrics) ScrollLockAcquired() {
	if m == nil {
		return
	}
	m.scrollLocks.Inc()
	m.scrollLockHolds.Inc()
}

// ScrollLockReleased records a scroll lock release.
func (m *Metrics) ScrollLockReleased() {
	if m == nil {
		return
	}
	m.scrollLocks.Dec()
}
