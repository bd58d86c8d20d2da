package rigor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors of a renderer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "rigor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures NewMetrics.
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

// WithRegistry sets the registry the collectors are registered with.
func WithRegistry(reg prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = reg
	}
}

// Metrics holds the collectors a renderer updates. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	setups      prometheus.Counter
	renders     *prometheus.CounterVec
	events      *prometheus.CounterVec
	mountPoints prometheus.Gauge
}

// NewMetrics creates and registers the renderer collectors:
//
//   - component_setups_total: setup calls
//   - renders_total{backend}: render function calls, backend "dom" or "string"
//   - events_total{event}: host events handled by mounted components
//   - mount_points: mount points held by live renders
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "rigor",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		setups: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "component_setups_total",
			Help:        "Number of component setup calls.",
			ConstLabels: cfg.ConstLabels,
		}),
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "renders_total",
			Help:        "Number of render function calls by backend.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"backend"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "events_total",
			Help:        "Number of host events handled by mounted components.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"event"}),
		mountPoints: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "mount_points",
			Help:        "Number of live mount points.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

func (m *Metrics) setupDone() {
	if m == nil {
		return
	}
	m.setups.Inc()
}

func (m *Metrics) rendered(backend string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(backend).Inc()
}

func (m *Metrics) eventHandled(event string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event).Inc()
}

func (m *Metrics) mountPointAdded() {
	if m == nil {
		return
	}
	m.mountPoints.Inc()
}

func (m *Metrics) mountPointsRemoved(n int) {
	if m == nil || n == 0 {
		return
	}
	m.mountPoints.Sub(float64(n))
}
