package presence

// Event is a committed state transition announced to subscribers.
// Events are transient: they live only on the bus and are never persisted.
type Event int

const (
	// EventClose announces the space closed.
	EventClose Event = iota
	// EventOpenIntern announces the space opened for members only.
	EventOpenIntern
	// EventOpen announces the space opened to the public.
	EventOpen
)

// String returns a readable name for logging.
func (e Event) String() string {
	switch e {
	case EventClose:
		return "close"
	case EventOpenIntern:
		return "open_intern"
	case EventOpen:
		return "open"
	default:
		return "unknown"
	}
}

// EventForState returns the event announcing a transition into the given state.
func EventForState(s State) Event {
	switch s {
	case OpenIntern:
		return EventOpenIntern
	case Open:
		return EventOpen
	default:
		return EventClose
	}
}
