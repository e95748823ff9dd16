package telemetry_test

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/loopcast/loopcast/pkg/telemetry"
)

// Example_basicSetup demonstrates basic telemetry setup.
func Example_basicSetup() {
	// Create configuration
	cfg := telemetry.DefaultConfig()
	cfg.ServiceName = "loopcast"
	cfg.ServiceVersion = "1.0.0"

	// Initialize telemetry
	tel, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		panic(err)
	}
	defer tel.Shutdown(context.Background())

	// Start metrics server (non-blocking)
	if err := tel.StartMetricsServer(); err != nil {
		panic(err)
	}

	// Add telemetry to context
	ctx := tel.WithContext(context.Background())

	// Use telemetry
	logger := telemetry.FromContext(ctx)
	logger.Info("Server started")

	// Output can vary, so we don't specify output for this example
}

// Example_structuredLogging demonstrates structured logging features.
func Example_structuredLogging() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Logging.Output = "stdout"

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Component-specific logger
	logger := tel.Logger.NewComponentLogger("orchestrator")

	// Add context fields
	logger = logger.WithVirtualHost("stream-a").WithOperation("create")

	// Log at different levels
	logger.Debug("Validating virtual host definition")
	logger.Info("Virtual host admitted")

	// Log with error
	err := fmt.Errorf("virtual host already exists")
	logger.WithError(err).Error("Admission rejected")

	// Output varies, no output specified
}

// Example_metricsCollection demonstrates metrics collection.
func Example_metricsCollection() {
	cfg := telemetry.DefaultConfig()
	cfg.Metrics.Enabled = true

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Record reconfiguration metrics
	tel.Metrics.RecordReconfiguration("create", "succeeded", 5*time.Millisecond)
	tel.Metrics.RecordReconfiguration("delete", "not_found", 1*time.Millisecond)
	tel.Metrics.SetVirtualHostCount(3)

	// Record binding metrics
	tel.Metrics.RecordBind("succeeded", 12*time.Millisecond)
	tel.Metrics.RecordReload("succeeded")

	// Record error metrics
	tel.Metrics.RecordError("conflict", "IN_USE")

	fmt.Println("Metrics recorded successfully")
	// Output: Metrics recorded successfully
}

// Example_eventPublishing demonstrates event publishing and subscription.
func Example_eventPublishing() {
	cfg := telemetry.DefaultConfig()
	cfg.Events.Enabled = true
	cfg.Events.EnableAsync = false // Synchronous for example

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Subscribe to events
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Event: %s - %s\n", event.Type, event.Message)
	}, nil) // No filter, receive all events

	// Publish events
	tel.Events.PublishVirtualHostCreated("stream-a")
	tel.Events.PublishVirtualHostDeleted("stream-a")

	// Output varies due to async nature, no output specified
}

// Example_eventFiltering demonstrates event filtering.
func Example_eventFiltering() {
	cfg := telemetry.DefaultConfig()
	cfg.Events.Enabled = true
	cfg.Events.EnableAsync = false

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Subscribe with level filter (only warnings and errors)
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Important event: %s\n", event.Type)
	}, telemetry.FilterByLevel(telemetry.EventLevelWarning))

	// Subscribe with type filter (only failed reconfigurations)
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Failure: %s\n", event.Message)
	}, telemetry.FilterByType(telemetry.EventTypeReconfigurationFailed))

	// Publish various events
	tel.Events.PublishVirtualHostCreated("stream-a") // Info - filtered by level filter
	tel.Events.PublishReconfigurationFailed("delete", "stream-a", fmt.Errorf("in use"))

	// Output varies, no output specified
}

// Example_instrumentedOperation demonstrates using the InstrumentedContext helper.
func Example_instrumentedOperation() {
	cfg := telemetry.DevelopmentConfig()
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start instrumented operation
	ic := telemetry.StartOperation(ctx, "validate_config",
		attribute.String("config.source", "/etc/loopcast/Server.xml"),
	)
	defer ic.End(nil)

	// Use the instrumented context
	ic.Logger.Info("Validating configuration")

	ic.Logger.Debug("Configuration validation complete")

	fmt.Println("Operation instrumentation complete")
	// Output: Operation instrumentation complete
}

// Example_bindInstrumentation demonstrates instrumenting a configuration binding.
func Example_bindInstrumentation() {
	cfg := telemetry.DevelopmentConfig()
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Record bind operation
	err := telemetry.RecordBindOperation(ctx, "/etc/loopcast/Server.xml", func() error {
		// Bind the document here
		return nil
	})

	if err == nil {
		fmt.Println("Bind completed successfully")
	}

	// Output: Bind completed successfully
}

// Example_productionConfiguration demonstrates production-ready configuration.
func Example_productionConfiguration() {
	cfg := telemetry.ProductionConfig()

	// Customize for your environment
	cfg.ServiceName = "loopcast"
	cfg.ServiceVersion = "1.2.3"
	cfg.Environment = "production"

	// Configure OTLP exporter
	cfg.Tracing.Exporter = "otlp"
	cfg.Tracing.Endpoint = "otel-collector.monitoring.svc.cluster.local:4317"
	cfg.Tracing.SamplingRate = 0.1 // 10% sampling
	cfg.Tracing.Insecure = false   // Use TLS in production

	// Configure metrics
	cfg.Metrics.ListenAddress = ":9090"
	cfg.Metrics.Namespace = "loopcast"

	// Configure events
	cfg.Events.BufferSize = 10000
	cfg.Events.FlushInterval = 5 * time.Second

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	fmt.Println("Production configuration validated")
	// Output: Production configuration validated
}

// Example_errorRecording demonstrates error recording with proper classification.
func Example_errorRecording() {
	cfg := telemetry.DevelopmentConfig()
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start a span
	ctx, span := tel.Tracer.Start(ctx, "risky_operation")
	defer span.End()

	// Simulate an error
	err := fmt.Errorf("virtual host still has dependents")

	if err != nil {
		// Record error on span
		telemetry.RecordError(span, err)

		// Record error metric with classification
		tel.Metrics.RecordError("conflict", "IN_USE")

		// Log error
		logger := telemetry.FromContext(ctx)
		logger.WithError(err).Error("Operation failed")
	}

	fmt.Println("Error recording complete")
	// Output: Error recording complete
}
