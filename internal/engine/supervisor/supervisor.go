// Package supervisor runs the native file watcher helper, keeps its watch roots in sync
// and turns its output into sink notifications.
package supervisor

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/fswatch/internal/engine/protocol"
)

// helper is one generation of the helper process. It is never mutated after creation;
// a restart installs a new one.
type helper struct {
	proc  ports.Process
	stdin io.WriteCloser
	gen   uint64
	// hung is set once a command write timed out. No further commands are written.
	hung atomic.Bool
}

// Supervisor owns the helper process and its lifecycle.
type Supervisor struct {
	locator ports.HelperLocator
	spawner ports.ProcessSpawner
	logger  ports.Logger
	tracer  ports.Tracer

	settings    domain.Settings
	filter      domain.RootFilter
	decoderOpts []protocol.DecoderOption

	dispatch *dispatcher

	state              atomic.Int32
	startAttempts      atomic.Int32
	pendingRootUpdates atomic.Int32
	current            atomic.Pointer[helper]
	// excluded holds the roots whose path events are suppressed.
	excluded atomic.Pointer[[]string]

	// mu serializes command writes, root set updates and state transitions.
	mu         sync.Mutex
	executable string
	active     domain.RootSet
	synced     bool
	generation uint64

	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithSettings overrides the tuning values. Zero values fall back to defaults.
func WithSettings(settings domain.Settings) Option {
	return func(s *Supervisor) {
		s.settings = settings.WithDefaults()
	}
}

// WithRootFilter sets the predicate selecting roots the helper cannot watch.
func WithRootFilter(filter domain.RootFilter) Option {
	return func(s *Supervisor) {
		s.filter = filter
	}
}

// WithDecoderOptions passes options to the protocol decoder of every helper generation.
func WithDecoderOptions(opts ...protocol.DecoderOption) Option {
	return func(s *Supervisor) {
		s.decoderOpts = append(s.decoderOpts, opts...)
	}
}

// New creates a Supervisor in the NotStarted state.
// The sink receives every notification from a single dispatcher goroutine.
func New(
	locator ports.HelperLocator,
	spawner ports.ProcessSpawner,
	sink ports.NotificationSink,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Supervisor {
	s := &Supervisor{
		locator:  locator,
		spawner:  spawner,
		logger:   logger,
		tracer:   tracer,
		settings: domain.DefaultSettings(),
		filter:   domain.NewRootFilter(runtime.GOOS, nil),
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dispatch = newDispatcher(sink, s.settings.EventBuffer)
	return s
}

// State returns the current lifecycle state.
func (s *Supervisor) State() domain.State {
	return domain.State(s.state.Load())
}

// IsOperational reports whether a helper is running.
func (s *Supervisor) IsOperational() bool {
	return s.State() == domain.StateRunning
}

// IsSynchronizingRoots reports whether a root update is in flight on a running helper.
// Callers should not rely on change notifications while it returns true.
func (s *Supervisor) IsSynchronizingRoots() bool {
	return s.pendingRootUpdates.Load() > 0 && s.IsOperational()
}

// Done is closed once the supervisor will never run a helper again,
// either because it was stopped or because it gave up.
func (s *Supervisor) Done() <-chan struct{} {
	return s.quit
}

// Roots returns a copy of the active root set.
// Its Ignored list includes roots the helper reported as unwatchable.
func (s *Supervisor) Roots() domain.RootSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	roots := s.active.Clone()
	roots.Ignored = s.ignored()
	return roots
}

// Start locates and launches the helper.
// Configuration problems are reported to the sink once and leave the supervisor inert.
// Calling Start on a running supervisor does nothing.
func (s *Supervisor) Start(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "supervisor.start")
	defer span.End()

	s.mu.Lock()
	switch st := s.State(); {
	case st == domain.StateShuttingDown || st.IsTerminal():
		s.mu.Unlock()
		return domain.ErrSupervisorClosed
	case st != domain.StateNotStarted:
		s.mu.Unlock()
		return nil
	}

	exe, err := s.locator.Locate()
	if err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		s.logger.Error(err)
		s.dispatch.post(failureNote(locateFailureMessage(err)))
		return err
	}
	s.executable = exe
	span.SetAttribute("helper.path", exe)

	h, notes, err := s.launchLocked(ctx, false)
	s.mu.Unlock()

	s.dispatch.post(notes...)
	if err != nil {
		span.RecordError(err)
		return err
	}
	s.startReader(h)
	return nil
}

// Stop shuts the helper down. Forced termination, if needed, happens in the background.
// Stop waits at most KillTimeout for a command write in flight. Stop is idempotent.
func (s *Supervisor) Stop() {
	if h := s.beginShutdown(); h != nil {
		go func() {
			defer s.wg.Done()
			s.finishShutdown(h)
		}()
	}
}

// Close shuts the helper down synchronously, waits for the reader to finish and delivers
// every pending notification. It must not be called from the sink.
func (s *Supervisor) Close() error {
	if h := s.beginShutdown(); h != nil {
		s.finishShutdown(h)
		s.wg.Done()
	}

	if !waitGroupDone(&s.wg, s.settings.ExitTimeout+2*s.settings.KillTimeout) {
		s.logger.Warn("native file watcher did not release its output in time")
	}

	s.dispatch.close()
	return nil
}

// beginShutdown moves to ShuttingDown and sends EXIT.
// It returns the helper to terminate, or nil when there is none or shutdown already began.
// A non-nil result holds a wait group slot that finishShutdown's caller must release.
func (s *Supervisor) beginShutdown() *helper {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State()
	if st == domain.StateShuttingDown || st.IsTerminal() {
		return nil
	}
	s.setState(domain.StateShuttingDown)
	s.signalQuit()

	h := s.current.Swap(nil)
	if h == nil {
		s.setState(domain.StateStopped)
		return nil
	}
	if err := s.writeLocked(h, protocol.EncodeExit); err != nil {
		s.logger.Error(err)
	}
	s.wg.Add(1)
	return h
}

func (s *Supervisor) finishShutdown(h *helper) {
	s.terminate(h)
	s.state.CompareAndSwap(int32(domain.StateShuttingDown), int32(domain.StateStopped))
	s.logger.Info(fmt.Sprintf("native file watcher (pid %d) stopped", h.proc.Pid()))
}

func waitGroupDone(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return waitDone(done, timeout)
}

func (s *Supervisor) setState(st domain.State) {
	s.state.Store(int32(st))
}

func (s *Supervisor) signalQuit() {
	s.quitOnce.Do(func() {
		close(s.quit)
	})
}
