package toast

// EventKind describes what changed in the registry.
type EventKind int

const (
	// EventShown is emitted when a toast is appended.
	EventShown EventKind = iota
	// EventUpdated is emitted when an active toast is changed in place.
	EventUpdated
	// EventDismissed is emitted when a toast is removed by Dismiss.
	EventDismissed
	// EventExpired is emitted when a toast's lifetime runs out.
	EventExpired
	// EventEvicted is emitted when the oldest toast makes room for a new one.
	EventEvicted
	// EventCleared is emitted by DismissAll.
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventShown:
		return "shown"
	case EventUpdated:
		return "updated"
	case EventDismissed:
		return "dismissed"
	case EventExpired:
		return "expired"
	case EventEvicted:
		return "evicted"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Removal reports whether the event took toasts out of the registry.
func (k EventKind) Removal() bool {
	return k >= EventDismissed
}

// Event is delivered to observers after every mutation.
type Event struct {
	Kind  EventKind
	Toast Message // zero for EventCleared
	// Active is the ordered collection right after the mutation.
	Active []Message
}

// Observer receives registry events.
type Observer func(Event)
