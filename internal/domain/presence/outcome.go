package presence

// Outcome reports what a transition request did.
type Outcome int

const (
	// OutcomeChanged means the state actually flipped and an event
	// was published.
	OutcomeChanged Outcome = iota
	// OutcomeAlreadyReported means the requested state was already
	// current: nothing was persisted and no event was published.
	// It is not an error.
	OutcomeAlreadyReported
)

// String returns a readable name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeChanged:
		return "changed"
	case OutcomeAlreadyReported:
		return "already_reported"
	default:
		return "unknown"
	}
}
