package domain

import "time"

// State is the lifecycle state of the helper supervisor.
type State int32

const (
	// StateNotStarted is the initial state, and the state after a failed first start.
	StateNotStarted State = iota
	// StateStarting means a helper is being spawned.
	StateStarting
	// StateRunning means a helper is alive and its output is being read.
	StateRunning
	// StateRestarting means the helper exited unexpectedly and a new one is being spawned.
	StateRestarting
	// StateShuttingDown means Stop was called and the helper is being terminated.
	StateShuttingDown
	// StateGaveUp is terminal: the helper failed too often or reported GIVEUP.
	StateGaveUp
	// StateStopped is terminal: the helper was shut down on request.
	StateStopped
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateRestarting:
		return "restarting"
	case StateShuttingDown:
		return "shutting_down"
	case StateGaveUp:
		return "gave_up"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further helper will ever be started.
func (s State) IsTerminal() bool {
	return s == StateGaveUp || s == StateStopped
}

// Default tuning values.
const (
	DefaultDedupWindow      = 2
	DefaultMaxStartAttempts = 10
	DefaultExitTimeout      = 10 * time.Millisecond
	DefaultKillTimeout      = 500 * time.Millisecond
	DefaultRestartDelay     = 100 * time.Millisecond
	DefaultEventBuffer      = 1024
)

// Settings holds the tuning values of the supervisor.
type Settings struct {
	// DedupWindow is the number of recent STATS/CHANGE paths remembered for suppression.
	DedupWindow int
	// MaxStartAttempts bounds how often the helper is spawned over the supervisor's lifetime.
	MaxStartAttempts int
	// ExitTimeout is how long Stop waits for the helper to exit after EXIT.
	ExitTimeout time.Duration
	// KillTimeout is the second wait before the helper is killed.
	KillTimeout time.Duration
	// RestartDelay is the pause before retrying a failed restart.
	RestartDelay time.Duration
	// EventBuffer is the capacity of the queue between the reader and the sink.
	EventBuffer int
}

// DefaultSettings returns the default tuning values.
func DefaultSettings() Settings {
	return Settings{
		DedupWindow:      DefaultDedupWindow,
		MaxStartAttempts: DefaultMaxStartAttempts,
		ExitTimeout:      DefaultExitTimeout,
		KillTimeout:      DefaultKillTimeout,
		RestartDelay:     DefaultRestartDelay,
		EventBuffer:      DefaultEventBuffer,
	}
}

// WithDefaults fills zero values with defaults.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.DedupWindow <= 0 {
		s.DedupWindow = d.DedupWindow
	}
	if s.MaxStartAttempts <= 0 {
		s.MaxStartAttempts = d.MaxStartAttempts
	}
	if s.ExitTimeout <= 0 {
		s.ExitTimeout = d.ExitTimeout
	}
	if s.KillTimeout <= 0 {
		s.KillTimeout = d.KillTimeout
	}
	if s.RestartDelay < 0 {
		s.RestartDelay = 0
	}
	if s.EventBuffer <= 0 {
		s.EventBuffer = d.EventBuffer
	}
	return s
}
