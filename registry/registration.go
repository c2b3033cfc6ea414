package registry

import (
	"context"
	"sync"
)

// Key identifies one binding in a registry. Keys are typically defined as
// package-level constants to avoid typos.
type Key string

// Kind describes how a binding produces its value.
type Kind int

const (
	// KindSingleton is a value fixed at registration time.
	KindSingleton Kind = iota
	// KindLazySingleton is a factory invoked at most once, on first resolution.
	KindLazySingleton
	// KindFactory is a factory invoked fresh on every resolution.
	KindFactory
	// KindAsyncSingleton is a context-aware factory invoked at most once,
	// with single-flight deduplication under concurrency.
	KindAsyncSingleton
	// KindParamFactory is a one-argument factory invoked fresh on every resolution.
	KindParamFactory
)

// String returns the kind name used in errors, logs and introspection.
func (k Kind) String() string {
	switch k {
	case KindSingleton:
		return "singleton"
	case KindLazySingleton:
		return "lazy_singleton"
	case KindFactory:
		return "factory"
	case KindAsyncSingleton:
		return "async_singleton"
	case KindParamFactory:
		return "param_factory"
	default:
		return "unknown"
	}
}

// Factory produces a value synchronously. It is the producer for
// LazySingleton and Factory bindings.
type Factory func() (any, error)

// AsyncFactory produces a value for an AsyncSingleton binding. The registry
// invokes it with a background context: a production, once started, is never
// cancelled by an individual caller. Factories needing a deadline should
// wrap one themselves.
type AsyncFactory func(ctx context.Context) (any, error)

// ParamFactory produces a value from a caller-supplied parameter. The
// registry passes the parameter through untouched; a factory receiving an
// unexpected dynamic type must return an error itself. The typed helpers in
// this package make that mismatch impossible at compile time.
type ParamFactory func(param any) (any, error)

// registration is the stored description of how to produce a value for a
// key. It is immutable after creation except for the lazy production guard.
type registration struct {
	kind    Kind
	value   any          // KindSingleton
	factory Factory      // KindLazySingleton, KindFactory
	async   AsyncFactory // KindAsyncSingleton
	param   ParamFactory // KindParamFactory

	// lazyMu serializes the at-most-once lazy production.
	lazyMu sync.Mutex
}

// RegistrationInfo describes a registered binding for introspection.
type RegistrationInfo struct {
	Key      Key    `json:"key"`
	Kind     string `json:"kind"`
	Resolved bool   `json:"resolved"`
	InFlight bool   `json:"in_flight"`
}
