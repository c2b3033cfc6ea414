package registry

import (
	"context"
	"fmt"
)

// Resolve resolves key and asserts the result to T.
//
// Example:
//
//	db, err := registry.Resolve[*sql.DB](r, "db")
func Resolve[T any](r *Registry, key Key) (T, error) {
	var zero T
	v, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &WrongTypeError{Key: key, Got: fmt.Sprintf("%T", v), Want: fmt.Sprintf("%T", zero)}
	}
	return typed, nil
}

// MustResolve resolves key and asserts the result to T, panicking on error.
// Use it in composition roots where a missing binding is a programming
// mistake.
func MustResolve[T any](r *Registry, key Key) T {
	v, err := Resolve[T](r, key)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve resolves key, returning the zero value and false if the key is
// missing, fails to produce, or has an unexpected type. Use it for optional
// dependencies.
func TryResolve[T any](r *Registry, key Key) (T, bool) {
	v, err := Resolve[T](r, key)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// ResolveAsync resolves key via the registry's asynchronous path and asserts
// the result to T.
func ResolveAsync[T any](ctx context.Context, r *Registry, key Key) (T, error) {
	var zero T
	v, err := r.ResolveAsync(ctx, key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &WrongTypeError{Key: key, Got: fmt.Sprintf("%T", v), Want: fmt.Sprintf("%T", zero)}
	}
	return typed, nil
}

// ResolveWithParam resolves key with param and asserts the result to T.
func ResolveWithParam[T any](r *Registry, key Key, param any) (T, error) {
	var zero T
	v, err := r.ResolveWithParam(key, param)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &WrongTypeError{Key: key, Got: fmt.Sprintf("%T", v), Want: fmt.Sprintf("%T", zero)}
	}
	return typed, nil
}
