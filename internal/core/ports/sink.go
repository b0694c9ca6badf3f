package ports

import "go.trai.ch/fswatch/internal/core/domain"

// NotificationSink receives the change notifications produced by the watcher.
// Calls are made from a single goroutine, in the order the helper reported them.
//
//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks
type NotificationSink interface {
	// OnDirtyPath reports that a path's content or metadata may have changed.
	OnDirtyPath(path string)
	// OnDirtyDirectory reports that the direct children of a directory must be revalidated.
	OnDirtyDirectory(path string)
	// OnRecursiveDirty reports that a whole subtree must be revalidated.
	OnRecursiveDirty(path string)
	// OnPathCreatedOrDeleted reports that a path appeared or disappeared.
	OnPathCreatedOrDeleted(path string)
	// OnReset reports that the watch state is unreliable.
	// An empty scope means everything under every root.
	OnReset(scope string)
	// OnRenameMapping reports roots that resolve to different locations.
	OnRenameMapping(pairs []domain.PathPair)
	// OnManualWatchRoots reports roots that must be polled by the caller.
	OnManualWatchRoots(roots []string)
	// OnFailure reports a user-facing failure or warning message.
	OnFailure(message string)
}
