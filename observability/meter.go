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

	"github.com/skillsenselab/wirekit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (development, staging, production).
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

// InitMeter initializes the global OpenTelemetry meter provider. The returned
// provider should be shut down on application exit.
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

// Metrics holds OpenTelemetry metric instruments for registry resolution.
type Metrics struct {
	factoryTotal       metric.Int64Counter
	cacheHitTotal      metric.Int64Counter
	flightJoinTotal    metric.Int64Counter
	flightActive       metric.Int64UpDownCounter
	productionDuration metric.Float64Histogram
	errorTotal         metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	factoryTotal, err := meter.Int64Counter("registry.factory.total",
		metric.WithDescription("Total number of factory invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registry.factory.total counter: %w", err)
	}

	cacheHitTotal, err := meter.Int64Counter("registry.cache_hit.total",
		metric.WithDescription("Total number of singleton cache hits"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registry.cache_hit.total counter: %w", err)
	}

	flightJoinTotal, err := meter.Int64Counter("registry.flight_join.total",
		metric.WithDescription("Total number of callers joining an in-flight production"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registry.flight_join.total counter: %w", err)
	}

	flightActive, err := meter.Int64UpDownCounter("registry.flight.active",
		metric.WithDescription("Number of currently in-flight async productions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registry.flight.active gauge: %w", err)
	}

	productionDuration, err := meter.Float64Histogram("registry.production.duration",
		metric.WithDescription("Duration of async productions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registry.production.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("registry.error.total",
		metric.WithDescription("Total production failures by key"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registry.error.total counter: %w", err)
	}

	return &Metrics{
		factoryTotal:       factoryTotal,
		cacheHitTotal:      cacheHitTotal,
		flightJoinTotal:    flightJoinTotal,
		flightActive:       flightActive,
		productionDuration: productionDuration,
		errorTotal:         errorTotal,
	}, nil
}

// RecordFactoryCall records a synchronous factory invocation.
func (m *Metrics) RecordFactoryCall(ctx context.Context, key string) {
	m.factoryTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}

// RecordCacheHit records a singleton cache hit.
func (m *Metrics) RecordCacheHit(ctx context.Context, key string) {
	m.cacheHitTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}

// RecordFlightJoin records a caller joining an existing in-flight production.
func (m *Metrics) RecordFlightJoin(ctx context.Context, key string) {
	m.flightJoinTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}

// RecordFlightStart increments the in-flight production count.
func (m *Metrics) RecordFlightStart(ctx context.Context) {
	m.flightActive.Add(ctx, 1)
}

// RecordFlightSettle decrements the in-flight count and records the
// production outcome and duration.
func (m *Metrics) RecordFlightSettle(ctx context.Context, key, status string, duration time.Duration) {
	m.flightActive.Add(ctx, -1)
	m.productionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("key", key),
		attribute.String("status", status),
	))
	if status != "ok" {
		m.errorTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
	}
}
