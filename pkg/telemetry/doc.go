// Package telemetry provides observability instrumentation for Loopcast.
//
// The telemetry package integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry), metrics (Prometheus), and event publishing into a unified system
// for monitoring and debugging configuration and reconfiguration operations.
//
// # Architecture
//
// The telemetry system is built on four pillars:
//
//  1. Structured Logging - Context-aware logging with zerolog
//  2. Distributed Tracing - OpenTelemetry traces with multiple exporters
//  3. Metrics Collection - Prometheus metrics for operational insights
//  4. Event Publishing - Async event system for audit and notifications
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "loopcast"
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	// Start metrics server
//	if err := tel.StartMetricsServer(); err != nil {
//	    log.Fatal(err)
//	}
//
// Add telemetry to context:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// The logger provides component-specific logging with automatic context propagation:
//
//	logger := tel.Logger.NewComponentLogger("orchestrator")
//	logger = logger.WithVirtualHost("stream-a").WithOperation("create")
//	logger.Info("Admitting virtual host")
//	logger.WithError(err).Error("Admission failed")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Distributed Tracing
//
// Tracing provides visibility into request flow and performance:
//
//	ctx, span := tel.Tracer.StartReconfigurationSpan(ctx, "create", name)
//	defer span.End()
//
// # Metrics
//
// Reconfiguration outcomes, binding durations, and admin API requests are
// recorded against a dedicated Prometheus registry exposed via the
// /metrics endpoint.
//
// # Events
//
// The event publisher delivers lifecycle notifications (vhost.created,
// vhost.deleted, reconfig.failed, config.bound, config.reloaded) to
// registered subscribers, optionally buffered and batched.
package telemetry
