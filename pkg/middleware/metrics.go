package middleware

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	skifferrors "github.com/skiff-dev/skiff/internal/errors"
	"github.com/skiff-dev/skiff/pkg/router"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "skiff").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for transition duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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
		Namespace:   "skiff",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for a router.
type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance, created on the first
// call to Prometheus(). Registering the same collectors twice would panic,
// so subsequent calls reuse the instance.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of route transitions attempted",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Route transition duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"path"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed route transitions",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "error_type"}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for route
// transitions.
//
// Metrics collected:
//   - skiff_navigations_total: Counter of transitions by path and status
//   - skiff_navigation_duration_seconds: Histogram of transition duration
//   - skiff_navigation_errors_total: Counter of failures by path and error type
//
// Example:
//
//	r, err := router.New(router.Options{
//	    Middleware: []router.Middleware{
//	        middleware.Prometheus(
//	            middleware.WithNamespace("myapp"),
//	        ),
//	    },
//	    ...
//	})
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return router.MiddlewareFunc(func(nav *router.Nav, next func() error) error {
		path := nav.Path
		if path == "" {
			path = "/"
		}

		start := time.Now()

		err := next()

		duration := time.Since(start).Seconds()
		m.navigationDuration.WithLabelValues(path).Observe(duration)

		status := "success"
		if err != nil {
			status = "error"
			m.navigationErrors.WithLabelValues(path, categorizeError(err)).Inc()
		}
		m.navigationsTotal.WithLabelValues(path, status).Inc()

		return err
	})
}

// categorizeError returns a low-cardinality category for the error.
// Error codes map to stable categories; anything else is bucketed by
// message content so free-form messages never become label values.
func categorizeError(err error) string {
	switch skifferrors.CodeOf(err) {
	case "R100":
		return "not_found"
	case "R101":
		return "fetch"
	case "R102":
		return "lifecycle"
	case "R103":
		return "rejected"
	}

	var se *skifferrors.SkiffError
	if errors.As(err, &se) && se.Category != "" {
		return string(se.Category)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"),
		strings.Contains(errStr, "deadline"):
		return "timeout"
	case strings.Contains(errStr, "not found"):
		return "not_found"
	default:
		return "internal"
	}
}

// Collector bundles the navigation metrics as a single
// prometheus.Collector, so they can be registered with additional
// registries alongside other application metrics:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(middleware.GetMetrics())
type Collector struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.navigationsTotal.Describe(ch)
	c.navigationDuration.Describe(ch)
	c.navigationErrors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.navigationsTotal.Collect(ch)
	c.navigationDuration.Collect(ch)
	c.navigationErrors.Collect(ch)
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		navigationsTotal:   globalMetrics.navigationsTotal,
		navigationDuration: globalMetrics.navigationDuration,
		navigationErrors:   globalMetrics.navigationErrors,
	}
}
