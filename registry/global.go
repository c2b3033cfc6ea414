package registry

import "sync"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use. It is
// an opt-in convenience for composition roots; library code should receive a
// *Registry explicitly so tests can construct isolated instances.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}
