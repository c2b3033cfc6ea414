package registry

import "time"

// EventKind identifies a resolution lifecycle event.
type EventKind string

const (
	// EventCacheHit fires when a resolution is served from the singleton cache.
	EventCacheHit EventKind = "cache_hit"
	// EventFactoryCall fires when a synchronous factory is invoked.
	EventFactoryCall EventKind = "factory_call"
	// EventFlightStart fires when an async production is initiated.
	EventFlightStart EventKind = "flight_start"
	// EventFlightJoin fires when a caller joins an in-flight production
	// instead of triggering a new one.
	EventFlightJoin EventKind = "flight_join"
	// EventFlightSettle fires when an async production settles. Err carries
	// the failure, Duration the time from start to settlement.
	EventFlightSettle EventKind = "flight_settle"
)

// Event describes one resolution lifecycle occurrence.
type Event struct {
	Kind     EventKind
	Key      Key
	Err      error
	Duration time.Duration
}

// Observer receives resolution lifecycle events. Implementations must be
// safe for concurrent use and must not block: events are emitted inline on
// the resolving goroutine.
type Observer interface {
	On(Event)
}

// emit forwards an event to the configured observer, if any.
func (r *Registry) emit(e Event) {
	if r.observer != nil {
		r.observer.On(e)
	}
}
