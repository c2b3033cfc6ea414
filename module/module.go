package module

import "github.com/skillsenselab/wirekit/registry"

// Module is a named unit of registry bindings.
type Module interface {
	// Name returns the unique name of the module for load tracking.
	Name() string

	// DependsOn declares the keys this module expects other modules to have
	// registered. The loader logs but does not enforce them.
	DependsOn() []registry.Key

	// Register binds the module's services into the registry. It must not
	// resolve other bindings; resolution happens after all loading completes.
	Register(r *registry.Registry) error
}

// Base is an embeddable struct providing a no-op DependsOn. Embed it and
// implement only Name and Register.
type Base struct{}

// DependsOn returns no declared dependencies.
func (Base) DependsOn() []registry.Key { return nil }

// funcModule adapts a closure to the Module interface.
type funcModule struct {
	name      string
	dependsOn []registry.Key
	register  func(r *registry.Registry) error
}

func (m *funcModule) Name() string                        { return m.name }
func (m *funcModule) DependsOn() []registry.Key           { return m.dependsOn }
func (m *funcModule) Register(r *registry.Registry) error { return m.register(r) }

// Func builds a Module from a registration closure.
//
//	m := module.Func("cache", func(r *registry.Registry) error {
//	    r.RegisterLazySingleton("cache", newCache)
//	    return nil
//	}, "config")
func Func(name string, register func(r *registry.Registry) error, dependsOn ...registry.Key) Module {
	return &funcModule{name: name, dependsOn: dependsOn, register: register}
}
