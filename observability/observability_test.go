package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/skillsenselab/wirekit/registry"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	if metrics == nil {
		t.Fatal("expected non-nil metrics")
	}

	ctx := context.Background()
	metrics.RecordFactoryCall(ctx, "database")
	metrics.RecordCacheHit(ctx, "database")
	metrics.RecordFlightJoin(ctx, "search-index")
	metrics.RecordFlightStart(ctx)
	metrics.RecordFlightSettle(ctx, "search-index", "ok", 100*time.Millisecond)
	metrics.RecordFlightSettle(ctx, "search-index", "error", 50*time.Millisecond)
}

func TestTracer(t *testing.T) {
	tracer := Tracer("test-tracer")
	if tracer == nil {
		t.Fatal("expected non-nil tracer")
	}
}

func TestMeter(t *testing.T) {
	meter := Meter("test-meter")
	if meter == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()
	ctx, span := StartSpan(ctx, "test-operation")
	defer span.End()

	if span == nil {
		t.Fatal("expected non-nil span")
	}
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
}

func newTestObserver(t *testing.T) (*RegistryObserver, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	otel.SetTracerProvider(tp)

	obs, err := NewRegistryObserver("test-service")
	if err != nil {
		t.Fatalf("creating observer: %v", err)
	}
	return obs, exporter
}

func TestRegistryObserverProductionSpan(t *testing.T) {
	obs, exporter := newTestObserver(t)

	obs.On(registry.Event{Kind: registry.EventFlightStart, Key: "search-index"})
	obs.On(registry.Event{
		Kind:     registry.EventFlightSettle,
		Key:      "search-index",
		Duration: 25 * time.Millisecond,
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "registry.produce" {
		t.Errorf("expected span 'registry.produce', got %q", spans[0].Name)
	}
}

func TestRegistryObserverFailedProduction(t *testing.T) {
	obs, exporter := newTestObserver(t)

	obs.On(registry.Event{Kind: registry.EventFlightStart, Key: "broken"})
	obs.On(registry.Event{
		Kind: registry.EventFlightSettle,
		Key:  "broken",
		Err:  errors.New("dial refused"),
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected error event recorded on span")
	}
}

func TestRegistryObserverSyncEvents(t *testing.T) {
	obs, _ := newTestObserver(t)

	// Metric-only events; must not panic and must leave no open span.
	obs.On(registry.Event{Kind: registry.EventCacheHit, Key: "database"})
	obs.On(registry.Event{Kind: registry.EventFactoryCall, Key: "request-id"})
	obs.On(registry.Event{Kind: registry.EventFlightJoin, Key: "search-index"})

	obs.mu.Lock()
	open := len(obs.spans)
	obs.mu.Unlock()
	if open != 0 {
		t.Errorf("expected no open spans, got %d", open)
	}
}

func TestRegistryObserverWiredToRegistry(t *testing.T) {
	obs, exporter := newTestObserver(t)

	r := registry.New(registry.WithObserver(obs))
	r.RegisterAsyncSingleton("search-index", func(ctx context.Context) (any, error) {
		return "ready", nil
	})

	if _, err := r.ResolveAsync(context.Background(), "search-index"); err != nil {
		t.Fatalf("ResolveAsync failed: %v", err)
	}
	if _, err := r.ResolveAsync(context.Background(), "search-index"); err != nil {
		t.Fatalf("cached ResolveAsync failed: %v", err)
	}

	// The settle event fires after waiters are released; poll for the span.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if len(exporter.GetSpans()) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 production span, got %d", len(exporter.GetSpans()))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
