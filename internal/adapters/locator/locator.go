// Package locator finds the native file watcher executable.
package locator

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HelperLocator = (*Locator)(nil)

// Locator implements ports.HelperLocator.
//
// The helper is looked up in this order: disabled flag, the FSWATCH_HELPER environment
// variable, the configured path, then the default executable name on PATH.
type Locator struct {
	config domain.HelperConfig
	getenv func(string) string
}

// Option configures a Locator.
type Option func(*Locator)

// WithGetenv replaces the environment lookup.
func WithGetenv(getenv func(string) string) Option {
	return func(l *Locator) {
		l.getenv = getenv
	}
}

// New creates a Locator for the given helper configuration.
func New(config domain.HelperConfig, opts ...Option) *Locator {
	l := &Locator{config: config, getenv: os.Getenv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the absolute path of a runnable helper.
func (l *Locator) Locate() (string, error) {
	if l.config.Disabled {
		return "", domain.ErrHelperDisabled
	}

	if p := l.getenv(domain.HelperEnvVar); p != "" {
		return check(p)
	}
	if l.config.Path != "" {
		return check(l.config.Path)
	}

	p, err := exec.LookPath(domain.DefaultHelperName)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", zerr.With(domain.ErrHelperNotFound, "name", domain.DefaultHelperName)
		}
		// A match relative to the current directory is refused by exec.LookPath.
		return "", zerr.With(errors.Join(domain.ErrHelperNotExecutable, err), "name", domain.DefaultHelperName)
	}
	return check(p)
}

// check verifies that path names an executable regular file.
func check(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrHelperNotFound, err), "path", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(domain.ErrHelperNotFound, "path", abs)
		}
		return "", zerr.With(errors.Join(domain.ErrHelperNotExecutable, err), "path", abs)
	}
	if info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrHelperNotExecutable, "is a directory"), "path", abs)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrHelperNotExecutable, "missing execute permission"), "path", abs)
	}
	return abs, nil
}
