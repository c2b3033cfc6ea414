package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/wirekit/logger"
	"github.com/skillsenselab/wirekit/module"
	"github.com/skillsenselab/wirekit/registry"
)

// App represents a generic application with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy the Config
// interface. Any struct embedding config.ServiceConfig automatically
// satisfies Config.
//
// Example:
//
//	app, err := bootstrap.NewApp(&myConfig)
//	app.OnReady(func(ctx context.Context) error {
//	    return server.Start(ctx)
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name       string
	Version    string
	InstanceID string
	Cfg        C
	Registry   *registry.Registry
	Modules    *module.Loader
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	startupDuration time.Duration

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		InstanceID:      uuid.NewString(),
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	if o.registry != nil {
		app.Registry = o.registry
	} else {
		regOpts := []registry.Option{}
		if o.observer != nil {
			regOpts = append(regOpts, registry.WithObserver(o.observer))
		}
		app.Registry = registry.New(regOpts...)
	}
	app.Modules = module.NewLoader(app.Registry)

	return app, nil
}

// Load applies modules to the application registry in list order.
func (a *App[C]) Load(modules ...module.Module) error {
	return a.Modules.LoadAll(modules...)
}

// Run executes the full application lifecycle for long-running services:
// OnStart hooks → Warm-up → OnReady hooks → Block on signal → OnStop hooks.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle. Unlike
// Run, it does not block on shutdown signals: it runs the task function and
// gracefully shuts down when the task completes or a signal cancels it.
//
// Use RunTask for CLI tools, batch jobs, and one-shot processes that need
// the same bootstrap infrastructure but have a finite workflow.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// startup performs the common initialization sequence shared by Run and
// RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("starting application", map[string]interface{}{
		"name":        a.Name,
		"version":     a.Version,
		"instance_id": a.InstanceID,
	})

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.warmUp(ctx); err != nil {
		return err
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.startupDuration = time.Since(start)
	a.logSummary()
	return nil
}

// warmUp eagerly produces every async singleton so expensive initialization
// happens before the application accepts work. Behavior is driven by the
// Warmup config: it can be disabled entirely, bounded by a timeout, and set
// to either abort startup on failure or log and continue.
func (a *App[C]) warmUp(ctx context.Context) error {
	wcfg := a.Cfg.GetServiceConfig().Warmup
	if wcfg.Disabled {
		a.Logger.Debug("warm-up disabled, async singletons resolve on first use")
		return nil
	}

	wctx := ctx
	if wcfg.Timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, wcfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := a.Registry.AllReady(wctx)
	if err == nil {
		a.Logger.Info("warm-up complete", map[string]interface{}{
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	if wcfg.FailFast {
		return fmt.Errorf("warm-up failed: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		a.Logger.Warn("warm-up timed out, productions continue in background", map[string]interface{}{
			"timeout": wcfg.Timeout.String(),
		})
		return nil
	}
	a.Logger.Warn("warm-up reported failures, continuing startup", map[string]interface{}{
		"error": err.Error(),
	})
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context
// cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs shutdown hooks within the graceful timeout and clears the
// registry.
func (a *App[C]) stop() error {
	a.Logger.Info("shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}

	a.Registry.Reset()

	a.Logger.Info("application shutdown complete")
	return shutdownErr
}
