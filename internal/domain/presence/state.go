package presence

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// State is the authoritative open/closed status of the space.
type State int

const (
	// Closed means the space is closed to everyone.
	Closed State = iota
	// OpenIntern means the space is open to members only.
	OpenIntern
	// Open means the space is open to the public.
	Open
)

// stateNames maps states to their stable textual form used in the
// state file and the HTTP surface.
var stateNames = map[State]string{
	Closed:     "closed",
	OpenIntern: "open_intern",
	Open:       "open",
}

// String returns the stable textual form of the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("unknown(%d)", int(s))
}

// Valid reports whether the state is one of the known encodings.
func (s State) Valid() bool {
	_, ok := stateNames[s]

	return ok
}

// ErrUnknownState is returned when parsing an unrecognized state name.
var ErrUnknownState = errors.New("unknown presence state")

// ParseState converts the textual form back into a State.
func ParseState(name string) (State, error) {
	for state, stateName := range stateNames {
		if stateName == name {
			return state, nil
		}
	}

	return Closed, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

// MarshalYAML encodes the state as its textual form.
func (s State) MarshalYAML() (any, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, int(s))
	}

	return s.String(), nil
}

// UnmarshalYAML decodes the state from its textual form.
func (s *State) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}

	parsed, err := ParseState(name)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// Record is the authoritative state together with the moment it last
// changed. LastChanged stays untouched when a transition is a no-op.
type Record struct {
	// State is the current presence state of the space.
	State State
	// LastChanged is when the state last actually changed.
	// The zero value means the state never changed since first start.
	LastChanged time.Time
}

// Clone returns a copy of the record to avoid leaking internal references.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	cloned := *r

	return &cloned
}
