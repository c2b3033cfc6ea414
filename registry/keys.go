package registry

import (
	"context"
	"fmt"
)

// TypedKey pairs a Key with the result type expected for its binding, so
// registration and resolution agree at compile time.
//
// Example:
//
//	var DatabaseKey = registry.NewKey[*sql.DB]("db")
//	registry.RegisterLazySingletonKey(r, DatabaseKey, openDB)
//	db, err := registry.ResolveKey(r, DatabaseKey)
type TypedKey[T any] struct {
	key Key
}

// NewKey creates a typed key with the given name.
func NewKey[T any](name string) TypedKey[T] {
	return TypedKey[T]{key: Key(name)}
}

// Key returns the underlying untyped key.
func (k TypedKey[T]) Key() Key { return k.key }

// RegisterSingletonKey binds a pre-built value to a typed key.
func RegisterSingletonKey[T any](r *Registry, k TypedKey[T], value T) {
	r.RegisterSingleton(k.key, value)
}

// RegisterLazySingletonKey binds a typed factory invoked at most once.
func RegisterLazySingletonKey[T any](r *Registry, k TypedKey[T], factory func() (T, error)) {
	r.RegisterLazySingleton(k.key, func() (any, error) { return factory() })
}

// RegisterFactoryKey binds a typed factory invoked on every resolution.
func RegisterFactoryKey[T any](r *Registry, k TypedKey[T], factory func() (T, error)) {
	r.RegisterFactory(k.key, func() (any, error) { return factory() })
}

// RegisterAsyncSingletonKey binds a typed async factory with single-flight
// deduplication.
func RegisterAsyncSingletonKey[T any](r *Registry, k TypedKey[T], factory func(ctx context.Context) (T, error)) {
	r.RegisterAsyncSingleton(k.key, func(ctx context.Context) (any, error) { return factory(ctx) })
}

// RegisterParamFactoryKey binds a typed one-argument factory. Resolving the
// key with a parameter that is not a P fails before the factory runs.
func RegisterParamFactoryKey[T, P any](r *Registry, k TypedKey[T], factory func(param P) (T, error)) {
	r.RegisterParamFactory(k.key, func(param any) (any, error) {
		p, ok := param.(P)
		if !ok {
			var want P
			return nil, fmt.Errorf("parameter is %T, want %T", param, want)
		}
		return factory(p)
	})
}

// ResolveParamKey resolves a typed key with a typed parameter.
func ResolveParamKey[T, P any](r *Registry, k TypedKey[T], param P) (T, error) {
	return ResolveWithParam[T](r, k.key, param)
}

// ResolveKey resolves a typed key synchronously.
func ResolveKey[T any](r *Registry, k TypedKey[T]) (T, error) {
	return Resolve[T](r, k.key)
}

// ResolveKeyAsync resolves a typed key via the asynchronous path.
func ResolveKeyAsync[T any](ctx context.Context, r *Registry, k TypedKey[T]) (T, error) {
	return ResolveAsync[T](ctx, r, k.key)
}
