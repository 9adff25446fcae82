// Package upload drives the resume upload form.
//
// Form state graph:
//
//	IDLE ──► VALIDATING ──► SUBMITTING ──► SUCCESS ──┐
//	 ▲           │               │                    │
//	 │           │               └──────► FAILURE ──┐ │
//	 └───────────┴──────────────────────────────────┴─┘
//
// A rejected precondition returns from VALIDATING straight to IDLE.
package upload

import "fmt"

// State is the phase of a submission.
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateSuccess    State = "SUCCESS"
	StateFailure    State = "FAILURE"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateSubmitting, StateIdle},
	StateSubmitting: {StateSuccess, StateFailure},
	StateSuccess:    {StateIdle},
	StateFailure:    {StateIdle},
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionError reports an attempt to move the form along an edge the
// state graph does not have, such as submitting twice concurrently.
type TransitionError struct {
	From, To State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("upload: illegal transition %s → %s", e.From, e.To)
}
