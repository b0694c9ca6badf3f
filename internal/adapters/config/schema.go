package config

import "time"

// File represents the structure of the fswatch.yaml configuration file.
type File struct {
	Helper         HelperDTO `yaml:"helper"`
	Roots          RootsDTO  `yaml:"roots"`
	ManualPrefixes []string  `yaml:"manual_prefixes"`
	Tuning         TuningDTO `yaml:"tuning"`
}

// HelperDTO configures the native helper executable.
type HelperDTO struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// RootsDTO lists the directories to watch.
type RootsDTO struct {
	Recursive []string `yaml:"recursive"`
	Flat      []string `yaml:"flat"`
}

// TuningDTO overrides supervisor settings. Omitted values keep their defaults.
type TuningDTO struct {
	DedupWindow      *int           `yaml:"dedup_window"`
	MaxStartAttempts *int           `yaml:"max_start_attempts"`
	ExitTimeout      *time.Duration `yaml:"exit_timeout"`
	KillTimeout      *time.Duration `yaml:"kill_timeout"`
	RestartDelay     *time.Duration `yaml:"restart_delay"`
	EventBuffer      *int           `yaml:"event_buffer"`
}
