package registry

import (
	"sort"
	"sync"

	"github.com/skillsenselab/wirekit/logger"
)

// Registry owns the bindings, the singleton cache and the in-flight cache.
// All operations are safe for concurrent use. Factories are never invoked
// while the registry lock is held, so a factory may resolve other keys from
// the same registry.
type Registry struct {
	mu            sync.RWMutex
	registrations map[Key]*registration
	singletons    map[Key]any
	inflight      map[Key]*flight

	observer Observer
	log      *logger.Logger
}

// Option configures a Registry during construction.
type Option func(*Registry)

// WithObserver sets an observer receiving resolution lifecycle events.
func WithObserver(o Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// WithLogger sets a custom logger. If not set, the global logger tagged
// with the registry component is used.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		registrations: make(map[Key]*registration),
		singletons:    make(map[Key]any),
		inflight:      make(map[Key]*flight),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.WithComponent("registry")
	}
	return r
}

// RegisterSingleton binds a pre-built value to key. The value is stored in
// the singleton cache immediately.
func (r *Registry) RegisterSingleton(key Key, value any) {
	r.register(key, &registration{kind: KindSingleton, value: value})
	r.mu.Lock()
	r.singletons[key] = value
	r.mu.Unlock()
}

// RegisterLazySingleton binds a factory invoked at most once, on first
// resolution. The factory is not invoked here.
func (r *Registry) RegisterLazySingleton(key Key, factory Factory) {
	r.register(key, &registration{kind: KindLazySingleton, factory: factory})
}

// RegisterFactory binds a factory invoked fresh on every resolution.
func (r *Registry) RegisterFactory(key Key, factory Factory) {
	r.register(key, &registration{kind: KindFactory, factory: factory})
}

// RegisterAsyncSingleton binds a context-aware factory invoked at most once,
// with single-flight deduplication. The factory is not invoked here.
func (r *Registry) RegisterAsyncSingleton(key Key, factory AsyncFactory) {
	r.register(key, &registration{kind: KindAsyncSingleton, async: factory})
}

// RegisterParamFactory binds a one-argument factory invoked fresh on every
// ResolveWithParam call.
func (r *Registry) RegisterParamFactory(key Key, factory ParamFactory) {
	r.register(key, &registration{kind: KindParamFactory, param: factory})
}

// register stores a binding, replacing any prior one for the key. A cached
// singleton produced under the old binding is dropped so the key is rebuilt
// with the new one.
func (r *Registry) register(key Key, reg *registration) {
	r.mu.Lock()
	delete(r.singletons, key)
	r.registrations[key] = reg
	r.mu.Unlock()

	r.log.Debug("binding registered", map[string]interface{}{
		"key":  string(key),
		"kind": reg.kind.String(),
	})
}

// Resolve looks up key synchronously. It returns the cached singleton if one
// exists, otherwise produces a value according to the binding kind.
// AsyncSingleton and ParamFactory bindings fail with
// WrongResolutionMethodError, directing the caller to ResolveAsync or
// ResolveWithParam.
func (r *Registry) Resolve(key Key) (any, error) {
	r.mu.RLock()
	if v, ok := r.singletons[key]; ok {
		r.mu.RUnlock()
		r.emit(Event{Kind: EventCacheHit, Key: key})
		return v, nil
	}
	reg, ok := r.registrations[key]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotRegisteredError{Key: key}
	}

	switch reg.kind {
	case KindSingleton:
		// The cached value was dropped by a concurrent re-register; the
		// registration still carries it.
		return reg.value, nil
	case KindFactory:
		r.emit(Event{Kind: EventFactoryCall, Key: key})
		v, err := reg.factory()
		if err != nil {
			return nil, &FactoryError{Key: key, Err: err}
		}
		return v, nil
	case KindLazySingleton:
		return r.resolveLazy(key, reg)
	default:
		return nil, &WrongResolutionMethodError{Key: key, Kind: reg.kind}
	}
}

// resolveLazy produces a lazy singleton at most once. Failures are not
// cached: a later Resolve re-invokes the factory.
func (r *Registry) resolveLazy(key Key, reg *registration) (any, error) {
	reg.lazyMu.Lock()
	defer reg.lazyMu.Unlock()

	// Another caller may have produced the value while we waited.
	r.mu.RLock()
	v, ok := r.singletons[key]
	r.mu.RUnlock()
	if ok {
		r.emit(Event{Kind: EventCacheHit, Key: key})
		return v, nil
	}

	r.emit(Event{Kind: EventFactoryCall, Key: key})
	v, err := reg.factory()
	if err != nil {
		return nil, &FactoryError{Key: key, Err: err}
	}

	r.mu.Lock()
	// Cache only if the binding was not replaced or removed meanwhile.
	if r.registrations[key] == reg {
		r.singletons[key] = v
	}
	r.mu.Unlock()
	return v, nil
}

// ResolveWithParam invokes the ParamFactory bound to key with param and
// returns a fresh value. The parameter is passed through untouched; the
// factory is responsible for rejecting an unexpected dynamic type.
func (r *Registry) ResolveWithParam(key Key, param any) (any, error) {
	r.mu.RLock()
	reg, ok := r.registrations[key]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotRegisteredError{Key: key}
	}
	if reg.kind != KindParamFactory {
		return nil, &NotParameterizedError{Key: key, Kind: reg.kind}
	}

	r.emit(Event{Kind: EventFactoryCall, Key: key})
	v, err := reg.param(param)
	if err != nil {
		return nil, &FactoryError{Key: key, Err: err}
	}
	return v, nil
}

// IsRegistered reports whether key has a current binding.
func (r *Registry) IsRegistered(key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.registrations[key]
	return ok
}

// Unregister removes the binding, the cached singleton and any in-flight
// entry for key. A production already awaited by other callers is not
// cancelled; those callers still observe its outcome, but the settled value
// is no longer cached under the key.
func (r *Registry) Unregister(key Key) {
	r.mu.Lock()
	delete(r.registrations, key)
	delete(r.singletons, key)
	delete(r.inflight, key)
	r.mu.Unlock()

	r.log.Debug("binding unregistered", map[string]interface{}{
		"key": string(key),
	})
}

// Reset clears every binding and cache entry, returning the registry to the
// empty state. Intended primarily for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.registrations = make(map[Key]*registration)
	r.singletons = make(map[Key]any)
	r.inflight = make(map[Key]*flight)
	r.mu.Unlock()

	r.log.Debug("registry reset")
}

// Len returns the number of current bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registrations)
}

// Keys returns the sorted keys of all current bindings.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]Key, 0, len(r.registrations))
	for k := range r.registrations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Registrations returns info about all current bindings for introspection,
// sorted by key.
func (r *Registry) Registrations() []RegistrationInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]RegistrationInfo, 0, len(r.registrations))
	for key, reg := range r.registrations {
		_, resolved := r.singletons[key]
		_, pending := r.inflight[key]
		infos = append(infos, RegistrationInfo{
			Key:      key,
			Kind:     reg.kind.String(),
			Resolved: resolved,
			InFlight: pending,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}
