package domain

import "go.trai.ch/zerr"

var (
	// ErrHelperDisabled is returned when the helper has been switched off in the configuration.
	ErrHelperDisabled = zerr.New("native file watcher is disabled")

	// ErrHelperNotFound is returned when no helper executable could be located.
	ErrHelperNotFound = zerr.New("native file watcher executable not found")

	// ErrHelperNotExecutable is returned when the helper exists but cannot be run.
	ErrHelperNotExecutable = zerr.New("native file watcher executable is not runnable")

	// ErrSpawnFailed is returned when the helper process cannot be started.
	ErrSpawnFailed = zerr.New("failed to start native file watcher")

	// ErrGaveUp is returned once the supervisor has stopped restarting the helper for good.
	ErrGaveUp = zerr.New("native file watcher gave up after repeated failures")

	// ErrHelperGaveUp is returned when the helper itself reports that it cannot continue.
	ErrHelperGaveUp = zerr.New("native file watcher stopped working")

	// ErrWatcherUnavailable is returned by the watch command once the failure has been
	// reported to the user.
	ErrWatcherUnavailable = zerr.New("file watcher is unavailable")

	// ErrSupervisorClosed is returned when starting a supervisor that has been shut down.
	ErrSupervisorClosed = zerr.New("file watcher supervisor is shut down")

	// ErrHelperNotRunning is returned when a command is sent while no helper is alive.
	ErrHelperNotRunning = zerr.New("native file watcher is not running")

	// ErrCommandWriteFailed is returned when a protocol command cannot be written to the helper.
	ErrCommandWriteFailed = zerr.New("failed to write command to native file watcher")

	// ErrMalformedRoots is returned when a ROOTS listing cannot be parsed.
	ErrMalformedRoots = zerr.New("malformed ROOTS command")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the config file parses but holds invalid values.
	ErrConfigInvalid = zerr.New("invalid config")

	// ErrConfigWatchFailed is returned when the config file cannot be watched for changes.
	ErrConfigWatchFailed = zerr.New("failed to watch config file")
)
