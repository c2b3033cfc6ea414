// Package health exposes registry state over HTTP for probes and debugging.
//
// Readiness reports 503 until every async singleton has been produced and
// cached, making it suitable as a Kubernetes readiness probe behind a
// warm-up phase. Registrations lists every binding with its kind and
// resolution state.
//
//	router := gin.New()
//	router.GET("/health/live", health.Liveness("my-app"))
//	router.GET("/health/ready", health.Readiness("my-app", reg))
//	router.GET("/debug/registrations", health.Registrations(reg))
package health
