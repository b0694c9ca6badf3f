package config

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultReloadDelay is how long the reloader waits for a burst of writes to settle.
const DefaultReloadDelay = 100 * time.Millisecond

// Reloader reloads a configuration file whenever it changes on disk.
type Reloader struct {
	loader   ports.ConfigLoader
	logger   ports.Logger
	path     string
	delay    time.Duration
	onChange func(*domain.Config)
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithReloadDelay sets the debounce delay.
func WithReloadDelay(d time.Duration) ReloaderOption {
	return func(r *Reloader) {
		r.delay = d
	}
}

// NewReloader creates a Reloader for the config file at path.
// onChange is called with every configuration that loads successfully.
func NewReloader(
	loader ports.ConfigLoader,
	logger ports.Logger,
	path string,
	onChange func(*domain.Config),
	opts ...ReloaderOption,
) *Reloader {
	r := &Reloader{
		loader:   loader,
		logger:   logger,
		path:     filepath.Clean(path),
		delay:    DefaultReloadDelay,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run watches the config file until ctx is done.
// The parent directory is watched so that editors replacing the file are noticed.
// A config that fails to load is logged and the previous one stays in effect.
func (r *Reloader) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigWatchFailed, err), "path", r.path)
	}
	defer func() {
		_ = w.Close()
	}()

	if err := w.Add(filepath.Dir(r.path)); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigWatchFailed, err), "path", r.path)
	}

	d := newDebouncer(r.delay, r.reload)
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				d.Trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Error(zerr.With(errors.Join(domain.ErrConfigWatchFailed, err), "path", r.path))
		}
	}
}

func (r *Reloader) reload() {
	cfg, err := r.loader.Load(r.path)
	if err != nil {
		r.logger.Error(zerr.Wrap(err, "keeping previous config"))
		return
	}
	r.logger.Info("config reloaded from " + r.path)
	r.onChange(cfg)
}
