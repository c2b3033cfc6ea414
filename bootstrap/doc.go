// Package bootstrap orchestrates application lifecycle around a service
// registry.
//
// It provides typed configuration, logger initialization, module loading,
// an async-singleton warm-up phase, and startup/shutdown hooks.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Load(databaseModule, searchModule); err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run loads nothing by itself; modules register bindings during Load, and
// the warm-up phase then produces every async singleton before the
// application is marked ready.
package bootstrap
