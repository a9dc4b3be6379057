// Package metrics exposes Prometheus collectors for dropzone widgets, the
// upload backend and the live update hub.
//
// All recording methods are safe to call on a nil *Collector, so components
// can take an optional collector without guarding every call site.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "dropzone").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for upload duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the upload duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "dropzone",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the Prometheus metrics.
type Collector struct {
	drops             prometheus.Counter
	rejected          *prometheus.CounterVec
	transformFailures prometheus.Counter
	uploads           *prometheus.CounterVec
	uploadDuration    prometheus.Histogram
	uploadBytes       prometheus.Counter
	stored            *prometheus.CounterVec
	liveConnections   prometheus.Gauge
	sessions          prometheus.Gauge
}

// New registers the collectors and returns them.
// Registering twice on the same registry panics, as with promauto.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		drops: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drops_total",
			Help:        "Total number of drop events handled by widgets",
			ConstLabels: config.ConstLabels,
		}),

		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "files_rejected_total",
			Help:        "Files excluded at admission, by rejection code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		transformFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transform_failures_total",
			Help:        "Pre-upload transforms that failed and dropped their file",
			ConstLabels: config.ConstLabels,
		}),

		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "uploads_total",
			Help:        "Upload batches started by widgets, by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		uploadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "upload_duration_seconds",
			Help:        "Upload batch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		uploadBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "upload_bytes_total",
			Help:        "Bytes in successfully uploaded batches",
			ConstLabels: config.ConstLabels,
		}),

		stored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "backend_requests_total",
			Help:        "Upload backend requests, by HTTP status class",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		liveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_connections",
			Help:        "Open live-update WebSocket connections",
			ConstLabels: config.ConstLabels,
		}),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions",
			Help:        "Widget sessions held by the server",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Drop records a handled drop event.
func (c *Collector) Drop() {
	if c == nil {
		return
	}
	c.drops.Inc()
}

// Rejected records a file excluded at admission.
func (c *Collector) Rejected(code string) {
	if c == nil {
		return
	}
	c.rejected.WithLabelValues(code).Inc()
}

// TransformFailed records a transform that errored.
func (c *Collector) TransformFailed() {
	if c == nil {
		return
	}
	c.transformFailures.Inc()
}

// UploadFinished records the outcome of an upload batch.
// bytes is only added for successful batches.
func (c *Collector) UploadFinished(err error, d time.Duration, bytes int64) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		c.uploadBytes.Add(float64(bytes))
	}
	c.uploads.WithLabelValues(status).Inc()
	c.uploadDuration.Observe(d.Seconds())
}

// BackendRequest records a request served by the upload backend.
func (c *Collector) BackendRequest(code int) {
	if c == nil {
		return
	}
	c.stored.WithLabelValues(statusClass(code)).Inc()
}

// LiveConnected adjusts the live connection gauge by delta.
func (c *Collector) LiveConnected(delta int) {
	if c == nil {
		return
	}
	c.liveConnections.Add(float64(delta))
}

// SetSessions sets the session gauge.
func (c *Collector) SetSessions(n int) {
	if c == nil {
		return
	}
	c.sessions.Set(float64(n))
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
