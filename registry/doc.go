// Package registry provides a typed service registry with single-flight
// asynchronous singleton resolution. It backs an application's composition
// root: modules register bindings at startup, and application code resolves
// them by key afterwards.
//
// # Registration kinds
//
// A binding is registered under a Key in one of five kinds:
//
//   - Singleton: a value fixed at registration time.
//   - LazySingleton: a factory invoked at most once, on first resolution.
//   - Factory: a factory invoked fresh on every resolution, never cached.
//   - AsyncSingleton: a context-aware factory invoked at most once, with
//     single-flight deduplication under concurrent resolution.
//   - ParamFactory: a one-argument factory invoked fresh on every resolution.
//
// Re-registering a key replaces the prior binding and drops any cached
// singleton for it.
//
// # Resolution
//
//	r := registry.New()
//	r.RegisterLazySingleton("db", func() (any, error) { return openDB() })
//
//	db, err := registry.Resolve[*DB](r, "db")
//
// AsyncSingleton bindings are resolved with ResolveAsync. Concurrent callers
// racing on the same unresolved key share one factory invocation and one
// outcome; a failed production is not cached, so a later call re-invokes the
// factory.
//
//	r.RegisterAsyncSingleton("search", func(ctx context.Context) (any, error) {
//	    return connectSearch(ctx)
//	})
//	idx, err := r.ResolveAsync(ctx, "search")
//
// AllReady front-loads every registered AsyncSingleton before the
// application begins serving work.
//
// # Isolation
//
// Registries are plain constructible values; pass them explicitly. Default()
// returns an opt-in process-wide instance for composition roots that want
// one. Tests should construct their own with New, or call Reset between
// cases.
package registry
