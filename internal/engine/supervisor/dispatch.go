package supervisor

import (
	"sync"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
)

// note is a single sink call waiting to be delivered.
type note func(ports.NotificationSink)

func failureNote(message string) note {
	return func(s ports.NotificationSink) { s.OnFailure(message) }
}

func resetNote(scope string) note {
	return func(s ports.NotificationSink) { s.OnReset(scope) }
}

func manualRootsNote(roots []string) note {
	return func(s ports.NotificationSink) { s.OnManualWatchRoots(roots) }
}

func remapNote(pairs []domain.PathPair) note {
	return func(s ports.NotificationSink) { s.OnRenameMapping(pairs) }
}

func pathNote(kind domain.ChangeKind, path string) note {
	switch kind {
	case domain.ChangeCreate, domain.ChangeDelete:
		return func(s ports.NotificationSink) { s.OnPathCreatedOrDeleted(path) }
	case domain.ChangeDirty:
		return func(s ports.NotificationSink) { s.OnDirtyDirectory(path) }
	case domain.ChangeRecursiveDirty:
		return func(s ports.NotificationSink) { s.OnRecursiveDirty(path) }
	default:
		return func(s ports.NotificationSink) { s.OnDirtyPath(path) }
	}
}

// dispatcher delivers notes to the sink from a single goroutine, in the order they were posted.
type dispatcher struct {
	sink  ports.NotificationSink
	queue chan note

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newDispatcher(sink ports.NotificationSink, capacity int) *dispatcher {
	d := &dispatcher{
		sink:  sink,
		queue: make(chan note, capacity),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case n := <-d.queue:
			n(d.sink)
		case <-d.quit:
			// Deliver what was queued before close.
			for {
				select {
				case n := <-d.queue:
					n(d.sink)
				default:
					return
				}
			}
		}
	}
}

// post queues notes, blocking while the queue is full.
// Notes posted after close are dropped.
func (d *dispatcher) post(notes ...note) {
	for _, n := range notes {
		select {
		case <-d.quit:
			return
		default:
		}
		select {
		case d.queue <- n:
		case <-d.quit:
			return
		}
	}
}

// close stops accepting notes and waits until the queued ones have been delivered.
func (d *dispatcher) close() {
	d.closeOnce.Do(func() {
		close(d.quit)
	})
	<-d.done
}
