package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/markup/pkg/markup"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "markup").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
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

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "markup",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for rendering, preview and
// publishing.
type Metrics struct {
	rendersTotal     *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
	renderErrors     *prometheus.CounterVec
	outputBytes      *prometheus.HistogramVec
	previewClients   prometheus.Gauge
	previewReloads   prometheus.Counter
	publishedObjects *prometheus.CounterVec
}

// NewMetrics registers the collectors with the configured registry.
//
// Metrics collected:
//   - markup_renders_total: Counter of renders by page and status
//   - markup_render_duration_seconds: Histogram of render duration by page
//   - markup_render_errors_total: Counter of render errors by page and type
//   - markup_output_bytes: Histogram of rendered page size
//   - markup_preview_clients: Gauge of connected preview clients
//   - markup_preview_reloads_total: Counter of reload broadcasts
//   - markup_published_objects_total: Counter of published pages by target
//
// It panics if the collectors are already registered with the registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of page renders",
			ConstLabels: config.ConstLabels,
		}, []string{"page", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Page render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"page"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of render errors",
			ConstLabels: config.ConstLabels,
		}, []string{"page", "error_type"}),

		outputBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "output_bytes",
			Help:        "Size of rendered pages in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{256, 1024, 4096, 16384, 65536, 262144}, // 256B to 256KB
		}, []string{"page"}),

		previewClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "preview_clients",
			Help:        "Number of connected preview WebSocket clients",
			ConstLabels: config.ConstLabels,
		}),

		previewReloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "preview_reloads_total",
			Help:        "Total number of reload notifications sent to preview clients",
			ConstLabels: config.ConstLabels,
		}),

		publishedObjects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "published_objects_total",
			Help:        "Total number of pages written by publish",
			ConstLabels: config.ConstLabels,
		}, []string{"target"}),
	}
}

// Middleware records render count, duration, size and errors.
func (m *Metrics) Middleware() Middleware {
	return func(next RenderFunc) RenderFunc {
		return func(ctx context.Context, page string, data markup.Context) (string, error) {
			start := time.Now()
			out, err := next(ctx, page, data)
			m.renderDuration.WithLabelValues(page).Observe(time.Since(start).Seconds())

			if err != nil {
				m.rendersTotal.WithLabelValues(page, "error").Inc()
				m.renderErrors.WithLabelValues(page, errorType(err)).Inc()
				return out, err
			}
			m.rendersTotal.WithLabelValues(page, "success").Inc()
			m.outputBytes.WithLabelValues(page).Observe(float64(len(out)))
			return out, nil
		}
	}
}

// SetPreviewClients records the number of connected preview clients.
func (m *Metrics) SetPreviewClients(n int) {
	m.previewClients.Set(float64(n))
}

// RecordReload counts a reload broadcast.
func (m *Metrics) RecordReload() {
	m.previewReloads.Inc()
}

// RecordPublished counts a page written to target.
func (m *Metrics) RecordPublished(target string) {
	m.publishedObjects.WithLabelValues(target).Inc()
}
