// Package config loads the fswatch.yaml configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration file at path.
//
// An empty path selects domain.ConfigFileName in the working directory; when that file
// does not exist the defaults are returned. Relative roots and a relative helper path
// are resolved against the directory of the file.
func (l *Loader) Load(path string) (*domain.Config, error) {
	explicit := path != ""
	if !explicit {
		path = domain.ConfigFileName
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	data, err := os.ReadFile(abs) //nolint:gosec // path is provided by user
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", abs)
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", abs)
	}

	cfg, err := l.build(abs, &file)
	if err != nil {
		return nil, zerr.With(err, "path", abs)
	}
	return cfg, nil
}

func defaultConfig() *domain.Config {
	return &domain.Config{Settings: domain.DefaultSettings()}
}

func (l *Loader) build(source string, file *File) (*domain.Config, error) {
	settings, err := buildSettings(&file.Tuning)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(source)
	recursive := resolvePaths(dir, file.Roots.Recursive)
	flat := resolvePaths(dir, file.Roots.Flat)

	for _, p := range recursive {
		if slices.Contains(flat, p) {
			l.Logger.Warn(fmt.Sprintf("%s is listed as both a recursive and a flat root", p))
		}
	}

	helperPath := file.Helper.Path
	if helperPath != "" {
		helperPath = resolvePath(dir, helperPath)
	}

	return &domain.Config{
		Source: source,
		Helper: domain.HelperConfig{
			Path:     helperPath,
			Disabled: file.Helper.Disabled,
		},
		Roots:          domain.NewRootSet(recursive, flat),
		ManualPrefixes: slices.DeleteFunc(slices.Clone(file.ManualPrefixes), func(p string) bool { return p == "" }),
		Settings:       settings,
	}, nil
}

func buildSettings(t *TuningDTO) (domain.Settings, error) {
	s := domain.DefaultSettings()

	if err := setPositive(&s.DedupWindow, t.DedupWindow, "dedup_window"); err != nil {
		return s, err
	}
	if err := setPositive(&s.MaxStartAttempts, t.MaxStartAttempts, "max_start_attempts"); err != nil {
		return s, err
	}
	if err := setPositive(&s.EventBuffer, t.EventBuffer, "event_buffer"); err != nil {
		return s, err
	}
	if err := setDuration(&s.ExitTimeout, t.ExitTimeout, "exit_timeout", false); err != nil {
		return s, err
	}
	if err := setDuration(&s.KillTimeout, t.KillTimeout, "kill_timeout", false); err != nil {
		return s, err
	}
	if err := setDuration(&s.RestartDelay, t.RestartDelay, "restart_delay", true); err != nil {
		return s, err
	}
	return s, nil
}

func setPositive(dst, value *int, field string) error {
	if value == nil {
		return nil
	}
	if *value <= 0 {
		return invalid(field, *value, "must be positive")
	}
	*dst = *value
	return nil
}

func setDuration(dst, value *time.Duration, field string, allowZero bool) error {
	if value == nil {
		return nil
	}
	if *value < 0 || (*value == 0 && !allowZero) {
		return invalid(field, *value, "must be a positive duration")
	}
	*dst = *value
	return nil
}

func invalid(field string, value any, reason string) error {
	err := zerr.With(zerr.Wrap(domain.ErrConfigInvalid, reason), "field", field)
	return zerr.With(err, "value", value)
}

func resolvePaths(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		out = append(out, resolvePath(dir, p))
	}
	return out
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(dir, p))
}
