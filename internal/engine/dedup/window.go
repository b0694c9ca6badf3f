// Package dedup suppresses immediately repeated change notifications.
package dedup

import (
	"unique"

	"go.trai.ch/fswatch/internal/core/domain"
)

// Window remembers the last few paths reported with STATS or CHANGE.
// Bulk operations such as copying a large file report the same path several
// times in a row; only the first report is passed on.
// A Window is owned by a single reader goroutine and is not safe for concurrent use.
type Window struct {
	ring []unique.Handle[string]
	used int
	next int
}

// NewWindow creates a window remembering size paths. Sizes below one are raised to one.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{ring: make([]unique.Handle[string], size)}
}

// Admit reports whether ev should be delivered.
// Only STATS and CHANGE path events are subject to suppression.
func (w *Window) Admit(ev domain.Event) bool {
	if ev.Type != domain.EventPathChanged {
		return true
	}
	if ev.Kind != domain.ChangeStats && ev.Kind != domain.ChangeContent {
		return true
	}

	h := unique.Make(ev.Path)
	for i := range w.used {
		if w.ring[i] == h {
			return false
		}
	}

	w.ring[w.next] = h
	w.next = (w.next + 1) % len(w.ring)
	if w.used < len(w.ring) {
		w.used++
	}
	return true
}

// Reset forgets every remembered path.
func (w *Window) Reset() {
	clear(w.ring)
	w.used = 0
	w.next = 0
}
