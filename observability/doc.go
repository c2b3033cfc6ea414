// Package observability provides OpenTelemetry tracing and metrics for
// registry resolution.
//
// Providers are initialized once at startup:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-app"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-app"))
//	defer mp.Shutdown(ctx)
//
// The registry is instrumented through its observer hook:
//
//	obs, err := observability.NewRegistryObserver("my-app")
//	r := registry.New(registry.WithObserver(obs))
//
// The observer records factory invocations, cache hits, single-flight joins
// and production durations as metrics, and emits a span per async
// production.
package observability
