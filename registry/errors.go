package registry

import "strconv"

// NotRegisteredError is returned when a resolution targets a key with no
// current binding.
type NotRegisteredError struct{ Key Key }

// Error implements the error interface.
func (e *NotRegisteredError) Error() string {
	// Example: registry: key "db" not registered
	return "registry: key " + strconv.Quote(string(e.Key)) + " not registered"
}

// WrongResolutionMethodError is returned when Resolve targets a key whose
// binding requires ResolveAsync or ResolveWithParam.
type WrongResolutionMethodError struct {
	Key  Key
	Kind Kind
}

// Error implements the error interface.
func (e *WrongResolutionMethodError) Error() string {
	switch e.Kind {
	case KindAsyncSingleton:
		return "registry: key " + strconv.Quote(string(e.Key)) + " is an async singleton, use ResolveAsync"
	case KindParamFactory:
		return "registry: key " + strconv.Quote(string(e.Key)) + " is a param factory, use ResolveWithParam"
	default:
		return "registry: key " + strconv.Quote(string(e.Key)) + " cannot be resolved synchronously (" + e.Kind.String() + ")"
	}
}

// NotParameterizedError is returned when ResolveWithParam targets a key not
// registered as a ParamFactory.
type NotParameterizedError struct {
	Key  Key
	Kind Kind
}

// Error implements the error interface.
func (e *NotParameterizedError) Error() string {
	return "registry: key " + strconv.Quote(string(e.Key)) + " is not parameterized (" + e.Kind.String() + ")"
}

// WrongTypeError is returned by the typed accessors when a key resolves to a
// value of an unexpected dynamic type.
type WrongTypeError struct {
	Key  Key
	Got  string
	Want string
}

// Error implements the error interface.
func (e *WrongTypeError) Error() string {
	return "registry: key " + strconv.Quote(string(e.Key)) + " resolved to " + e.Got + ", expected " + e.Want
}

// FactoryError wraps a failure raised by a caller-supplied factory. The
// underlying error is propagated verbatim through Unwrap to every caller
// awaiting the production.
type FactoryError struct {
	Key Key
	Err error
}

// Error implements the error interface.
func (e *FactoryError) Error() string {
	return "registry: factory for key " + strconv.Quote(string(e.Key)) + " failed: " + e.Err.Error()
}

// Unwrap returns the factory's original error.
func (e *FactoryError) Unwrap() error { return e.Err }
