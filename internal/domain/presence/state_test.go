package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestStateRoundtrip verifies textual encoding of every known state.
func TestStateRoundtrip(t *testing.T) {
	t.Parallel()

	for _, state := range []State{Closed, OpenIntern, Open} {
		require.True(t, state.Valid())

		parsed, err := ParseState(state.String())
		require.NoError(t, err)
		require.Equal(t, state, parsed)
	}

	_, err := ParseState("ajar")
	require.ErrorIs(t, err, ErrUnknownState)

	require.False(t, State(7).Valid())
}

// TestStateYAML encodes states as their textual form in YAML.
func TestStateYAML(t *testing.T) {
	t.Parallel()

	data, err := yaml.Marshal(OpenIntern)
	require.NoError(t, err)
	require.Equal(t, "open_intern\n", string(data))

	var state State
	require.NoError(t, yaml.Unmarshal([]byte("open"), &state))
	require.Equal(t, Open, state)

	require.Error(t, yaml.Unmarshal([]byte("ajar"), &state))

	_, err = yaml.Marshal(State(7))
	require.Error(t, err)
}

// TestEventForState maps every state onto its announcement event.
func TestEventForState(t *testing.T) {
	t.Parallel()

	require.Equal(t, EventOpen, EventForState(Open))
	require.Equal(t, EventOpenIntern, EventForState(OpenIntern))
	require.Equal(t, EventClose, EventForState(Closed))
}

// TestRecordClone returns an independent copy.
func TestRecordClone(t *testing.T) {
	t.Parallel()

	var missing *Record
	require.Nil(t, missing.Clone())

	record := &Record{State: Open, LastChanged: time.Unix(100, 0)}
	cloned := record.Clone()
	require.Equal(t, record, cloned)
	require.NotSame(t, record, cloned)
}
