package supervisor

import (
	"os"
	"slices"
	"strings"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/engine/dedup"
	"go.trai.ch/fswatch/internal/engine/protocol"
	"go.trai.ch/zerr"
)

// read decodes the output of h until it ends, then handles the helper's exit.
// There is exactly one reader per helper generation.
func (s *Supervisor) read(h *helper) {
	defer s.wg.Done()

	decoder := protocol.NewDecoder(s.logger, s.decoderOpts...)
	window := dedup.NewWindow(s.settings.DedupWindow)

	err := decoder.Run(h.proc.Stdout(), func(ev domain.Event) {
		if ev.Type == domain.EventReset {
			window.Reset()
		}
		if window.Admit(ev) {
			s.handleEvent(h, ev)
		}
	})
	if err != nil {
		s.logger.Error(zerr.With(err, "pid", h.proc.Pid()))
	}

	s.awaitExit(h)
	s.onExit(h)
}

// awaitExit waits for h to terminate once its output has ended, killing it if it lingers.
func (s *Supervisor) awaitExit(h *helper) {
	if waitDone(h.proc.Done(), s.settings.KillTimeout) {
		return
	}
	_ = h.proc.Kill()
	waitDone(h.proc.Done(), s.settings.KillTimeout)
}

func (s *Supervisor) handleEvent(h *helper, ev domain.Event) {
	// Output of a helper that has been replaced or has given up is ignored.
	if cur := s.current.Load(); cur != h && (cur != nil || s.State() == domain.StateGaveUp) {
		return
	}

	switch ev.Type {
	case domain.EventGiveUp:
		s.onGiveUp(h)
	case domain.EventReset:
		s.dispatch.post(resetNote(ev.Path))
	case domain.EventUnwatchable:
		s.exclude(ev.Paths)
		s.dispatch.post(manualRootsNote(ev.Paths))
	case domain.EventRemap:
		s.dispatch.post(remapNote(ev.Pairs))
	case domain.EventMessage:
		s.logger.Warn(ev.Text)
		s.dispatch.post(failureNote(ev.Text))
	case domain.EventPathChanged:
		if s.isExcluded(ev.Path) {
			return
		}
		s.dispatch.post(pathNote(ev.Kind, ev.Path))
	}
}

// exclude adds roots to the ignored set without taking s.mu, so that the reader never
// waits on a command write that is itself waiting for the reader.
func (s *Supervisor) exclude(roots []string) {
	for {
		old := s.excluded.Load()
		var next []string
		if old != nil {
			next = append(next, *old...)
		}
		for _, root := range roots {
			if !slices.Contains(next, root) {
				next = append(next, root)
			}
		}
		if s.excluded.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (s *Supervisor) ignored() []string {
	if p := s.excluded.Load(); p != nil {
		return append([]string{}, *p...)
	}
	return []string{}
}

func (s *Supervisor) isExcluded(path string) bool {
	p := s.excluded.Load()
	if p == nil {
		return false
	}
	for _, root := range *p {
		if isUnder(path, root) {
			return true
		}
	}
	return false
}

// isUnder reports whether path is root or lies below it.
func isUnder(path, root string) bool {
	if root == "" || !strings.HasPrefix(path, root) {
		return false
	}
	if len(path) == len(root) || os.IsPathSeparator(root[len(root)-1]) {
		return true
	}
	return os.IsPathSeparator(path[len(root)])
}
