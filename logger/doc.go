// Package logger provides structured logging for wirekit packages and the
// applications composed on top of them, backed by zerolog.
//
// Initialize the global logger once at startup:
//
//	logger.Init(&logger.Config{Level: "debug", Format: "console"})
//
// Packages log through component-tagged loggers:
//
//	log := logger.WithComponent("registry")
//	log.Debug("binding registered", logger.Fields("key", "db"))
package logger
