package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/wirekit/registry"
)

// RegistryObserver bridges registry events to OpenTelemetry metrics and
// spans. It implements registry.Observer; pass it to the registry via
// registry.WithObserver.
type RegistryObserver struct {
	metrics *Metrics
	tracer  trace.Tracer

	// mu guards spans, the open span per key between flight_start and
	// flight_settle. Events for different keys arrive concurrently.
	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewRegistryObserver creates an observer using the global providers.
func NewRegistryObserver(serviceName string) (*RegistryObserver, error) {
	metrics, err := NewMetrics(Meter(tracerName))
	if err != nil {
		return nil, fmt.Errorf("creating registry metrics: %w", err)
	}
	return &RegistryObserver{
		metrics: metrics,
		tracer:  Tracer(tracerName + "/" + serviceName),
		spans:   make(map[string]trace.Span),
	}, nil
}

// On records a registry event. Implements registry.Observer.
func (o *RegistryObserver) On(ev registry.Event) {
	ctx := context.Background()
	key := string(ev.Key)

	switch ev.Kind {
	case registry.EventCacheHit:
		o.metrics.RecordCacheHit(ctx, key)
	case registry.EventFactoryCall:
		o.metrics.RecordFactoryCall(ctx, key)
	case registry.EventFlightJoin:
		o.metrics.RecordFlightJoin(ctx, key)
	case registry.EventFlightStart:
		o.metrics.RecordFlightStart(ctx)
		_, span := o.tracer.Start(ctx, "registry.produce",
			trace.WithAttributes(attribute.String("key", key)),
		)
		o.mu.Lock()
		o.spans[key] = span
		o.mu.Unlock()
	case registry.EventFlightSettle:
		status := "ok"
		if ev.Err != nil {
			status = "error"
		}
		o.metrics.RecordFlightSettle(ctx, key, status, ev.Duration)
		o.mu.Lock()
		span, ok := o.spans[key]
		delete(o.spans, key)
		o.mu.Unlock()
		if ok {
			if ev.Err != nil {
				span.RecordError(ev.Err)
				span.SetStatus(codes.Error, ev.Err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		}
	}
}
