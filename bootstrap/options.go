package bootstrap

import (
	"time"

	"github.com/skillsenselab/wirekit/logger"
	"github.com/skillsenselab/wirekit/registry"
)

// Option configures the App during creation. Options are non-generic so they
// can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	registry        *registry.Registry
	observer        registry.Observer
	gracefulTimeout *time.Duration
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is auto-initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithRegistry sets a custom registry for the application. Useful when
// bindings must be registered before the app is constructed.
func WithRegistry(r *registry.Registry) Option {
	return func(o *appOptions) {
		o.registry = r
	}
}

// WithObserver sets an observer on the app-owned registry. Ignored when
// WithRegistry supplies a pre-built registry.
func WithObserver(obs registry.Observer) Option {
	return func(o *appOptions) {
		o.observer = obs
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}
