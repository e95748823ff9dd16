package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for Loopcast.
type Metrics struct {
	config MetricsConfig

	// Reconfiguration metrics
	reconfigurations        *prometheus.CounterVec
	reconfigurationDuration *prometheus.HistogramVec

	// Configuration binding metrics
	configBinds        *prometheus.CounterVec
	configBindDuration *prometheus.HistogramVec
	configReloads      *prometheus.CounterVec

	// Admin API metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	// Topology metrics
	virtualHosts prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	// Create a new registry
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		// Reconfiguration metrics
		reconfigurations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconfigurations_total",
				Help:      "Total number of reconfiguration operations",
			},
			[]string{"operation", "outcome"},
		),
		reconfigurationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reconfiguration_duration_seconds",
				Help:      "Duration of reconfiguration operations in seconds",
				Buckets:   buckets,
			},
			[]string{"operation"},
		),

		// Configuration binding metrics
		configBinds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_binds_total",
				Help:      "Total number of configuration document bindings",
			},
			[]string{"status"},
		),
		configBindDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "config_bind_duration_seconds",
				Help:      "Duration of configuration document bindings in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),
		configReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of configuration file reloads",
			},
			[]string{"status"},
		),

		// Admin API metrics
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of admin API requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of admin API requests in seconds",
				Buckets:   buckets,
			},
			[]string{"method", "path"},
		),

		// Error metrics
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by error class",
			},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),

		// Topology metrics
		virtualHosts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "virtual_hosts",
				Help:      "Current number of virtual hosts in the topology",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.reconfigurations,
		m.reconfigurationDuration,
		m.configBinds,
		m.configBindDuration,
		m.configReloads,
		m.httpRequests,
		m.httpRequestDuration,
		m.errorsByClass,
		m.errorsByCode,
		m.virtualHosts,
	)

	return m, nil
}

// Reconfiguration Metrics

// RecordReconfiguration records one reconfiguration operation with its
// outcome and duration.
func (m *Metrics) RecordReconfiguration(operation, outcome string, duration time.Duration) {
	if m.reconfigurations == nil {
		return
	}
	m.reconfigurations.WithLabelValues(operation, outcome).Inc()
	m.reconfigurationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetVirtualHostCount sets the current size of the virtual host topology.
func (m *Metrics) SetVirtualHostCount(count float64) {
	if m.virtualHosts == nil {
		return
	}
	m.virtualHosts.Set(count)
}

// Configuration Metrics

// RecordBind records a configuration document binding.
func (m *Metrics) RecordBind(status string, duration time.Duration) {
	if m.configBinds == nil {
		return
	}
	m.configBinds.WithLabelValues(status).Inc()
	m.configBindDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordReload records a configuration file reload.
func (m *Metrics) RecordReload(status string) {
	if m.configReloads == nil {
		return
	}
	m.configReloads.WithLabelValues(status).Inc()
}

// Admin API Metrics

// RecordHTTPRequest records one admin API request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m.httpRequests == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Error Metrics

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" && m.errorsByCode != nil {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration is a helper to time an operation and record it.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
