package domain

// ConfigFileName is the default name of the configuration file.
const ConfigFileName = "fswatch.yaml"

// DefaultHelperName is the executable name searched on PATH when no helper path is configured.
const DefaultHelperName = "fsnotifier"

// HelperEnvVar overrides the helper location when set.
const HelperEnvVar = "FSWATCH_HELPER"

// HelperConfig describes where the native helper lives.
type HelperConfig struct {
	// Path is an explicit helper location. Empty means search PATH.
	Path string
	// Disabled switches the native watcher off entirely.
	Disabled bool
}

// Config is the loaded configuration.
type Config struct {
	// Source is the absolute path of the file the config was read from.
	Source string
	Helper HelperConfig
	// Roots holds the requested recursive and flat roots.
	Roots RootSet
	// ManualPrefixes lists path prefixes that are never handed to the helper.
	ManualPrefixes []string
	Settings       Settings
}
