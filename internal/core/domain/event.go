package domain

// EventType identifies the variant carried by an Event.
type EventType uint8

const (
	// EventGiveUp means the helper cannot continue operating at all.
	EventGiveUp EventType = iota
	// EventReset means the watch state is unreliable and everything must be rescanned.
	EventReset
	// EventUnwatchable lists roots the helper cannot watch.
	EventUnwatchable
	// EventRemap carries rename pairs for roots that resolve to other locations.
	EventRemap
	// EventMessage carries a human readable message from the helper.
	EventMessage
	// EventPathChanged reports a change to a single path.
	EventPathChanged
)

// String returns the name of the event type.
func (t EventType) String() string {
	switch t {
	case EventGiveUp:
		return "giveup"
	case EventReset:
		return "reset"
	case EventUnwatchable:
		return "unwatchable"
	case EventRemap:
		return "remap"
	case EventMessage:
		return "message"
	case EventPathChanged:
		return "path_changed"
	default:
		return "unknown"
	}
}

// ChangeKind is the kind of change reported for a path.
type ChangeKind uint8

const (
	// ChangeStats means the metadata of a path changed.
	ChangeStats ChangeKind = iota
	// ChangeContent means the content of a path changed.
	ChangeContent
	// ChangeCreate means a path was created.
	ChangeCreate
	// ChangeDelete means a path was deleted.
	ChangeDelete
	// ChangeDirty means the direct children of a directory must be revalidated.
	ChangeDirty
	// ChangeRecursiveDirty means a whole subtree must be revalidated.
	ChangeRecursiveDirty
)

// String returns the name of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeStats:
		return "stats"
	case ChangeContent:
		return "change"
	case ChangeCreate:
		return "create"
	case ChangeDelete:
		return "delete"
	case ChangeDirty:
		return "dirty"
	case ChangeRecursiveDirty:
		return "recdirty"
	default:
		return "unknown"
	}
}

// PathPair maps an original path to the path it resolves to.
type PathPair struct {
	Old string
	New string
}

// Event is a decoded helper response.
// Only the fields relevant to Type are populated.
type Event struct {
	Type EventType
	// Kind is set for EventPathChanged.
	Kind ChangeKind
	// Path is set for EventPathChanged and, optionally, EventReset.
	Path string
	// Text is set for EventMessage.
	Text string
	// Paths is set for EventUnwatchable.
	Paths []string
	// Pairs is set for EventRemap.
	Pairs []PathPair
}

// PathChanged builds an EventPathChanged event.
func PathChanged(kind ChangeKind, path string) Event {
	return Event{Type: EventPathChanged, Kind: kind, Path: path}
}
