package panel

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of a panel instance.
type State int

const (
	Hidden State = iota
	Showing
	Shown
	Hiding
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "HIDDEN"
	case Showing:
		return "SHOWING"
	case Shown:
		return "SHOWN"
	case Hiding:
		return "HIDING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Visible reports whether the panel occupies the screen in any way.
func (s State) Visible() bool {
	return s == Showing || s == Shown || s == Hiding
}

// Transitioning reports whether the panel is waiting on a visual completion.
func (s State) Transitioning() bool {
	return s == Showing || s == Hiding
}

// ParseState accepts the names produced by String, case-insensitively.
func ParseState(s string) (State, error) {
	switch normalize(s) {
	case "", "hidden":
		return Hidden, nil
	case "showing":
		return Showing, nil
	case "shown":
		return Shown, nil
	case "hiding":
		return Hiding, nil
	}
	return Hidden, fmt.Errorf("parse state %q: unknown", s)
}

// transitions holds the only legal edges. Encoding and sequencing are
// independent: reordering the constants above does not change this table.
var transitions = map[State]State{
	Hidden:  Showing,
	Showing: Shown,
	Shown:   Hiding,
	Hiding:  Hidden,
}

// Next returns the single legal successor of s.
func Next(s State) State {
	return transitions[s]
}

// CanTransition reports whether from -> to is one of the four legal edges.
func CanTransition(from, to State) bool {
	next, ok := transitions[from]
	return ok && next == to
}

// canForce reports whether an initial forced transition may land on to.
// Only resting states are reachable without a driver waiting on completion.
func canForce(to State) bool {
	return to == Hidden || to == Shown
}

// TransitionError reports a rejected state change.
type TransitionError struct {
	ID     string
	From   State
	To     State
	Forced bool
}

func (e *TransitionError) Error() string {
	kind := "transition"
	if e.Forced {
		kind = "forced transition"
	}
	if e.ID == "" {
		return fmt.Sprintf("illegal %s %s -> %s", kind, e.From, e.To)
	}
	return fmt.Sprintf("panel %s: illegal %s %s -> %s", e.ID, kind, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// Sentinel errors. Configuration errors abort the operation without
// retaining partial state; protocol misuse leaves the registry untouched.
var (
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrUnknownTemplate   = errors.New("unknown panel template")
	ErrDuplicateIdentity = errors.New("panel already active")
	ErrNotActive         = errors.New("panel not active")
	ErrGroupAtLimit      = errors.New("panel group at limit")
)
