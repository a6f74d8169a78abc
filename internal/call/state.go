package call

import (
	"errors"
	"fmt"
	"slices"
)

// State is a call session lifecycle state.
type State string

const (
	Initializing State = "INITIALIZING"
	Active       State = "ACTIVE"
	Ended        State = "ENDED"
)

// ErrEnded is returned by controls used after the call ended.
var ErrEnded = errors.New("call: session ended")

// validTransitions defines allowed state transitions. Ended is terminal.
var validTransitions = map[State][]State{
	Initializing: {Active, Ended},
	Active:       {Ended},
}

// TransitionError reports a transition not present in the table.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

func canTransition(from, to State) bool {
	return slices.Contains(validTransitions[from], to)
}

// StateChange is the payload for call.state_changed events.
type StateChange struct {
	ContactID string
	From      State
	To        State
}
