package supervisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/engine/protocol"
	"go.trai.ch/zerr"
)

// launchLocked spawns a new helper generation and resends the active roots.
// On success the caller must start the reader for the returned helper after posting the notes.
// s.mu must be held.
func (s *Supervisor) launchLocked(ctx context.Context, restart bool) (*helper, []note, error) {
	attempt := int(s.startAttempts.Add(1))
	if attempt > s.settings.MaxStartAttempts {
		err := zerr.With(zerr.Wrap(domain.ErrGaveUp, "start attempts exhausted"), "attempts", attempt-1)
		s.logger.Error(err)
		return nil, s.giveUpLocked(domain.ErrGaveUp.Error()), err
	}

	if !restart {
		s.setState(domain.StateStarting)
	}

	proc, err := s.spawner.Spawn(ctx, s.executable)
	if err != nil {
		message := fmt.Sprintf("%s: %v", domain.ErrSpawnFailed, err)
		err = zerr.With(zerr.With(errors.Join(domain.ErrSpawnFailed, err), "path", s.executable), "attempt", attempt)
		if restart {
			return nil, nil, err
		}
		s.setState(domain.StateNotStarted)
		s.logger.Error(err)
		return nil, []note{failureNote(message)}, err
	}

	s.generation++
	h := &helper{proc: proc, stdin: proc.Stdin(), gen: s.generation}
	s.current.Store(h)
	s.setState(domain.StateRunning)
	s.wg.Add(1)
	s.logger.Info(fmt.Sprintf("native file watcher started (pid %d, attempt %d)", proc.Pid(), attempt))

	var notes []note
	if !s.active.IsEmpty() {
		s.pendingRootUpdates.Add(1)
		notes = append(notes, s.syncRootsLocked(h)...)
		s.pendingRootUpdates.Add(-1)
	}
	if restart {
		// Changes made while no helper was running are unknown.
		notes = append(notes, resetNote(""))
	}
	return h, notes, nil
}

func (s *Supervisor) startReader(h *helper) {
	go s.read(h)
}

// restart relaunches the helper after an unexpected exit.
// Failed spawns are retried after RestartDelay until the attempt ceiling is reached.
func (s *Supervisor) restart() {
	ctx, span := s.tracer.Start(context.Background(), "supervisor.restart")
	defer span.End()

	for {
		s.mu.Lock()
		if s.State() != domain.StateRestarting {
			s.mu.Unlock()
			return
		}
		h, notes, err := s.launchLocked(ctx, true)
		s.mu.Unlock()

		s.dispatch.post(notes...)
		if err == nil {
			span.SetAttribute("helper.generation", int64(h.gen))
			s.startReader(h)
			return
		}
		span.RecordError(err)
		if errors.Is(err, domain.ErrGaveUp) {
			return
		}
		s.logger.Warn(err.Error())

		select {
		case <-s.quit:
			return
		case <-time.After(s.settings.RestartDelay):
		}
	}
}

// onExit runs on the reader goroutine once h has terminated.
func (s *Supervisor) onExit(h *helper) {
	s.mu.Lock()
	// A helper that was replaced or shut down on purpose is not restarted.
	if !s.current.CompareAndSwap(h, nil) || s.State() != domain.StateRunning {
		s.mu.Unlock()
		return
	}
	s.synced = false
	s.setState(domain.StateRestarting)
	s.mu.Unlock()

	s.logger.Warn(fmt.Sprintf("native file watcher (pid %d) exited unexpectedly, restarting", h.proc.Pid()))
	s.restart()
}

// onGiveUp handles a GIVEUP response: the helper is shut down and never restarted.
func (s *Supervisor) onGiveUp(h *helper) {
	s.mu.Lock()
	if s.current.Load() != h {
		s.mu.Unlock()
		return
	}
	notes := s.giveUpLocked(domain.ErrHelperGaveUp.Error())
	s.mu.Unlock()

	s.logger.Error(zerr.With(domain.ErrHelperGaveUp, "pid", h.proc.Pid()))
	s.dispatch.post(notes...)
}

// giveUpLocked enters the terminal GaveUp state and terminates the current helper, if any.
// s.mu must be held.
func (s *Supervisor) giveUpLocked(message string) []note {
	s.setState(domain.StateGaveUp)
	s.signalQuit()

	if h := s.current.Swap(nil); h != nil {
		if err := s.writeLocked(h, protocol.EncodeExit); err != nil {
			s.logger.Error(err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.terminate(h)
		}()
	}
	return []note{failureNote(message)}
}

// terminate waits for h to exit after EXIT was sent and kills it when it does not.
// Every wait is bounded.
func (s *Supervisor) terminate(h *helper) {
	defer func() {
		_ = h.stdin.Close()
	}()

	if waitDone(h.proc.Done(), s.settings.ExitTimeout) {
		return
	}
	if waitDone(h.proc.Done(), s.settings.KillTimeout) {
		return
	}

	s.logger.Warn(fmt.Sprintf("native file watcher (pid %d) did not exit, killing it", h.proc.Pid()))
	if err := h.proc.Kill(); err != nil {
		s.logger.Error(zerr.With(zerr.Wrap(err, "failed to kill native file watcher"), "pid", h.proc.Pid()))
	}
	waitDone(h.proc.Done(), s.settings.KillTimeout)
}

// writeLocked sends a command to h. s.mu must be held.
// A write that does not complete within KillTimeout marks h as hung and kills it,
// which releases the blocked write and lets the reader restart the helper.
func (s *Supervisor) writeLocked(h *helper, encode func(w io.Writer) error) error {
	if h == nil {
		return domain.ErrHelperNotRunning
	}
	if h.hung.Load() {
		return zerr.With(zerr.Wrap(domain.ErrCommandWriteFailed, "native file watcher is not reading commands"), "pid", h.proc.Pid())
	}

	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return zerr.With(errors.Join(domain.ErrCommandWriteFailed, err), "pid", h.proc.Pid())
	}

	written := make(chan error, 1)
	go func() {
		_, err := h.stdin.Write(buf.Bytes())
		written <- err
	}()

	timer := time.NewTimer(s.settings.KillTimeout)
	defer timer.Stop()

	select {
	case err := <-written:
		if err != nil {
			return zerr.With(errors.Join(domain.ErrCommandWriteFailed, err), "pid", h.proc.Pid())
		}
		return nil
	case <-timer.C:
	}

	h.hung.Store(true)
	s.logger.Warn(fmt.Sprintf("native file watcher (pid %d) stopped reading commands, killing it", h.proc.Pid()))
	if err := h.proc.Kill(); err != nil {
		s.logger.Error(zerr.With(zerr.Wrap(err, "failed to kill native file watcher"), "pid", h.proc.Pid()))
	}
	_ = h.stdin.Close()

	return zerr.With(zerr.With(zerr.Wrap(domain.ErrCommandWriteFailed, "write timed out"),
		"pid", h.proc.Pid()), "timeout", s.settings.KillTimeout)
}

func waitDone(done <-chan struct{}, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// locateFailureMessage turns a locator error into the message shown to the user.
func locateFailureMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrHelperDisabled,
		domain.ErrHelperNotFound,
		domain.ErrHelperNotExecutable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
