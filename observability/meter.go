package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/skillsenselab/pivotkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name reported to the collector.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry metric instruments for pivot execution.
type Metrics struct {
	pivotTotal    metric.Int64Counter
	pivotDuration metric.Float64Histogram
	pivotActive   metric.Int64UpDownCounter
	lookupTotal   metric.Int64Counter
	errorTotal    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	pivotTotal, err := meter.Int64Counter("pivot.total",
		metric.WithDescription("Total number of pivot function runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pivot.total counter: %w", err)
	}

	pivotDuration, err := meter.Float64Histogram("pivot.duration",
		metric.WithDescription("Duration of pivot function runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pivot.duration histogram: %w", err)
	}

	pivotActive, err := meter.Int64UpDownCounter("pivot.active",
		metric.WithDescription("Number of currently running pivot functions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pivot.active gauge: %w", err)
	}

	lookupTotal, err := meter.Int64Counter("ti.lookup.total",
		metric.WithDescription("Total number of threat intelligence lookups"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ti.lookup.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		pivotTotal:    pivotTotal,
		pivotDuration: pivotDuration,
		pivotActive:   pivotActive,
		lookupTotal:   lookupTotal,
		errorTotal:    errorTotal,
	}, nil
}

// RecordPivotStart increments the active pivot count.
func (m *Metrics) RecordPivotStart(ctx context.Context) {
	m.pivotActive.Add(ctx, 1)
}

// RecordPivotEnd decrements active pivots and records the completed run.
func (m *Metrics) RecordPivotEnd(ctx context.Context, entityType, container, name, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("entity", entityType),
		attribute.String("container", container),
		attribute.String("pivot", name),
		attribute.String("status", status),
	)
	m.pivotActive.Add(ctx, -1)
	m.pivotTotal.Add(ctx, 1, attrs)
	m.pivotDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("entity", entityType),
		attribute.String("container", container),
		attribute.String("pivot", name),
	))
}

// RecordLookup records a threat intelligence lookup by provider.
func (m *Metrics) RecordLookup(ctx context.Context, provider, status string) {
	m.lookupTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
