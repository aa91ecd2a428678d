// Package permission models the notification permission of an application scope.
package permission

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidState indicates a value that is not a known permission state.
	ErrInvalidState = errors.New("invalid permission state")
	// ErrInvalidTransition indicates a flow event that is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid permission transition")
)

// State is the platform-level permission value.
type State string

const (
	Default State = "default"
	Granted State = "granted"
	Denied  State = "denied"
)

// Parse converts a string into a State. Empty input parses as Default.
func Parse(s string) (State, error) {
	switch State(strings.ToLower(strings.TrimSpace(s))) {
	case "", Default:
		return Default, nil
	case Granted:
		return Granted, nil
	case Denied:
		return Denied, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
}

// Valid reports whether s is one of the three known states.
func (s State) Valid() bool {
	return s == Default || s == Granted || s == Denied
}

func (s State) String() string {
	return string(s)
}

// Phase is the position of a scope in the permission-then-subscribe flow.
type Phase int

const (
	Unrequested Phase = iota
	Requested
	PhaseGranted
	PhaseDenied
)

func (p Phase) String() string {
	switch p {
	case Unrequested:
		return "unrequested"
	case Requested:
		return "requested"
	case PhaseGranted:
		return "granted"
	case PhaseDenied:
		return "denied"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PhaseOf maps a platform state onto a flow phase.
func PhaseOf(s State) Phase {
	switch s {
	case Granted:
		return PhaseGranted
	case Denied:
		return PhaseDenied
	default:
		return Unrequested
	}
}

// Flow is the guarded permission state machine used before subscribing.
// The zero value starts in Unrequested. Flow is not safe for concurrent use;
// owners guard it with their own lock.
type Flow struct {
	phase Phase
}

// NewFlow returns a flow positioned at the phase of the given state.
func NewFlow(s State) Flow {
	return Flow{phase: PhaseOf(s)}
}

// Phase returns the current phase.
func (f *Flow) Phase() Phase {
	return f.phase
}

// NeedsRequest reports whether a permission request must happen before subscribing.
func (f *Flow) NeedsRequest() bool {
	return f.phase != PhaseGranted
}

// Begin moves the flow into Requested unless permission is already granted.
// It returns true when a request must be issued.
func (f *Flow) Begin() bool {
	if f.phase == PhaseGranted {
		return false
	}
	f.phase = Requested
	return true
}

// Resolve records the outcome of a request started with Begin.
func (f *Flow) Resolve(granted bool) error {
	if f.phase != Requested {
		return fmt.Errorf("%w: resolve from %s", ErrInvalidTransition, f.phase)
	}
	if granted {
		f.phase = PhaseGranted
	} else {
		f.phase = PhaseDenied
	}
	return nil
}

// Sync repositions the flow from an authoritative platform state.
func (f *Flow) Sync(s State) {
	f.phase = PhaseOf(s)
}

// State returns the platform state implied by the current phase.
// A pending request still reads as Default.
func (f *Flow) State() State {
	switch f.phase {
	case PhaseGranted:
		return Granted
	case PhaseDenied:
		return Denied
	default:
		return Default
	}
}
