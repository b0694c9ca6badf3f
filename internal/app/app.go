// Package app implements the application layer for fswatch.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"go.trai.ch/fswatch/internal/adapters/config"
	"go.trai.ch/fswatch/internal/adapters/console"
	"go.trai.ch/fswatch/internal/adapters/locator"
	"go.trai.ch/fswatch/internal/adapters/telemetry"
	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/fswatch/internal/engine/supervisor"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// LocatorFactory builds a helper locator for a helper configuration.
type LocatorFactory func(domain.HelperConfig) ports.HelperLocator

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	spawner      ports.ProcessSpawner
	logger       ports.Logger
	tracer       ports.Tracer
	newLocator   LocatorFactory
	stdout       io.Writer
	reloadDelay  time.Duration
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, spawner ports.ProcessSpawner, log ports.Logger, tracer ports.Tracer) *App {
	return &App{
		configLoader: loader,
		spawner:      spawner,
		logger:       log,
		tracer:       tracer,
		newLocator: func(cfg domain.HelperConfig) ports.HelperLocator {
			return locator.New(cfg)
		},
		stdout:      os.Stdout,
		reloadDelay: config.DefaultReloadDelay,
	}
}

// WithOutput sets the writer notifications are printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithLocatorFactory replaces how the helper is located.
// This is primarily used for testing.
func (a *App) WithLocatorFactory(f LocatorFactory) *App {
	a.newLocator = f
	return a
}

// WithReloadDelay sets how long config changes settle before they are applied.
func (a *App) WithReloadDelay(d time.Duration) *App {
	a.reloadDelay = d
	return a
}

// WatchOptions configures the Watch method.
type WatchOptions struct {
	// ConfigPath is the config file. Empty selects fswatch.yaml in the working directory.
	ConfigPath string
	// JSON switches log output to JSON records.
	JSON bool
	// Quiet hides informational log records.
	Quiet bool
	// Trace logs a line for every finished span.
	Trace bool
	// NoReload disables watching the config file.
	NoReload bool
	// For stops watching after the given duration. Zero watches until ctx is done.
	For time.Duration
}

type logFormatter interface {
	SetJSON(enable bool)
	SetQuiet(quiet bool)
}

// Watch runs the native file watcher on the configured roots and prints every notification
// until ctx is done, the duration in opts elapses or the watcher gives up.
//
//nolint:cyclop // orchestration function
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	if f, ok := a.logger.(logFormatter); ok {
		f.SetJSON(opts.JSON)
		f.SetQuiet(opts.Quiet)
	}

	// 1. Load the configuration
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Tracing
	if opts.Trace {
		shutdown := telemetry.Setup(a.logger)
		defer func() {
			_ = shutdown(context.Background())
		}()
	}

	// 3. Supervisor
	sink := console.New(a.stdout)
	sup := supervisor.New(
		a.newLocator(cfg.Helper),
		a.spawner,
		sink,
		a.logger,
		a.tracer,
		supervisor.WithSettings(cfg.Settings),
		supervisor.WithRootFilter(domain.NewRootFilter(runtime.GOOS, cfg.ManualPrefixes)),
	)
	defer func() {
		if err := sup.Close(); err != nil {
			a.logger.Error(err)
		}
		a.logger.Info("stopped watching: " + sink.Summary())
	}()

	sup.UpdateRoots(cfg.Roots.Recursive, cfg.Roots.Flat)
	if err := sup.Start(ctx); err != nil {
		// The sink has already reported the failure.
		return errors.Join(domain.ErrWatcherUnavailable, err)
	}

	if opts.For > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.For)
		defer cancel()
	}

	// 4. Run the reloader and wait for the end concurrently
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Source != "" && !opts.NoReload {
		g.Go(func() error {
			return a.reload(ctx, cfg, sup)
		})
	}

	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-sup.Done():
			if sup.State() == domain.StateGaveUp {
				return zerr.Wrap(domain.ErrWatcherUnavailable, domain.ErrGaveUp.Error())
			}
			return nil
		}
	})

	return g.Wait()
}

// reload pushes the roots of every changed config to sup.
// Helper and tuning changes only take effect on the next run.
func (a *App) reload(ctx context.Context, current *domain.Config, sup *supervisor.Supervisor) error {
	r := config.NewReloader(a.configLoader, a.logger, current.Source, func(next *domain.Config) {
		if next.Helper != current.Helper || next.Settings != current.Settings {
			a.logger.Warn("helper and tuning changes take effect after a restart of fswatch")
		}
		sup.UpdateRoots(next.Roots.Recursive, next.Roots.Flat)
	}, config.WithReloadDelay(a.reloadDelay))

	if err := r.Run(ctx); err != nil {
		// Watching still works without reloads.
		a.logger.Error(err)
	}
	return nil
}

// CheckReport describes whether the native file watcher can be used.
type CheckReport struct {
	// Source is the config file that was read, if any.
	Source string
	// HelperPath is the located helper executable.
	HelperPath string
	// Roots holds the configured roots. Its Ignored list names the roots that must be polled.
	Roots domain.RootSet
}

// Check locates the helper and classifies the configured roots without starting anything.
func (a *App) Check(_ context.Context, configPath string) (*CheckReport, error) {
	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	filter := domain.NewRootFilter(runtime.GOOS, cfg.ManualPrefixes)
	_, ignoredRecursive := filter.Split(cfg.Roots.Recursive)
	_, ignoredFlat := filter.Split(cfg.Roots.Flat)

	report := &CheckReport{
		Source: cfg.Source,
		Roots:  cfg.Roots.Clone(),
	}
	report.Roots.Ignored = append(ignoredRecursive, ignoredFlat...)

	path, err := a.newLocator(cfg.Helper).Locate()
	if err != nil {
		return report, err
	}
	report.HelperPath = path
	return report, nil
}

// Describe returns a one-line summary of the report.
func (r *CheckReport) Describe() string {
	return fmt.Sprintf("%d recursive, %d flat, %d polled manually",
		len(r.Roots.Recursive), len(r.Roots.Flat), len(r.Roots.Ignored))
}
