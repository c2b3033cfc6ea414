// Package module groups related registry bindings into named, loadable
// units and applies them to a registry in caller-specified order.
//
// A Module registers a cohesive set of bindings. The declared dependency
// keys are informational only: the loader never reorders modules, so list
// them in an order where later modules may assume earlier modules'
// registrations exist.
//
//	type storageModule struct{ module.Base }
//
//	func (storageModule) Name() string { return "storage" }
//	func (storageModule) Register(r *registry.Registry) error {
//	    r.RegisterLazySingleton("db", openDB)
//	    return nil
//	}
//
//	loader := module.NewLoader(reg)
//	if err := loader.LoadAll(storageModule{}, apiModule{}); err != nil {
//	    ...
//	}
package module
