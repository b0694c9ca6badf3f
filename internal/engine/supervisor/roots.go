package supervisor

import (
	"context"
	"fmt"
	"io"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/fswatch/internal/engine/protocol"
)

// UpdateRoots replaces the watched roots.
//
// An unchanged root set is not sent to the helper again, but the roots that must be
// polled manually are reported to the sink every time. Roots the filter rejects are
// reported instead of being sent. Write failures are logged; the next call with the
// same roots retries the send.
func (s *Supervisor) UpdateRoots(recursive, flat []string) {
	s.pendingRootUpdates.Add(1)
	defer s.pendingRootUpdates.Add(-1)

	_, span := s.tracer.Start(context.Background(), "supervisor.update_roots",
		ports.WithAttribute("roots.recursive", len(recursive)),
		ports.WithAttribute("roots.flat", len(flat)),
	)
	defer span.End()

	s.mu.Lock()
	if st := s.State(); st == domain.StateShuttingDown || st.IsTerminal() {
		recursive, flat = nil, nil
	}

	next := domain.NewRootSet(recursive, flat)
	span.SetAttribute("roots.fingerprint", fmt.Sprintf("%016x", next.Fingerprint()))

	if s.synced && next.Equal(s.active) {
		ignored := s.ignored()
		s.mu.Unlock()
		span.SetAttribute("roots.changed", false)
		s.dispatch.post(manualRootsNote(ignored))
		return
	}

	s.active = next
	notes := s.syncRootsLocked(s.current.Load())
	s.mu.Unlock()

	span.SetAttribute("roots.changed", true)
	s.dispatch.post(notes...)
}

// syncRootsLocked splits the active roots into watched and ignored ones, reports the
// ignored ones and sends the watched ones to h. s.mu must be held.
func (s *Supervisor) syncRootsLocked(h *helper) []note {
	recursive, ignoredRecursive := s.filter.Split(s.active.Recursive)
	flat, ignoredFlat := s.filter.Split(s.active.Flat)

	ignored := make([]string, 0, len(ignoredRecursive)+len(ignoredFlat))
	ignored = append(ignored, ignoredRecursive...)
	ignored = append(ignored, ignoredFlat...)
	s.active.Ignored = ignored
	s.excluded.Store(&ignored)

	notes := []note{manualRootsNote(append([]string{}, ignored...))}

	if h == nil {
		s.synced = false
		return notes
	}

	err := s.writeLocked(h, func(w io.Writer) error {
		return protocol.EncodeRoots(w, domain.RootSet{Recursive: recursive, Flat: flat})
	})
	s.synced = err == nil
	if err != nil {
		s.logger.Error(err)
	}
	return notes
}
