package fsm

import (
	"errors"
	"fmt"
)

var (
	// ErrInconsistent marks a transition that must never happen in the
	// current state. The watch model and the game have desynchronized.
	ErrInconsistent = errors.New("inconsistent transition")

	// ErrNilState marks a handler that returned neither a state nor an error.
	ErrNilState = errors.New("nil next state")
)

// StateMachineError reports a variable change a state rejects.
type StateMachineError struct {
	Game   string
	State  string
	Var    Var
	Prev   any
	Value  any
	Reason string

	cause error
}

func (e *StateMachineError) Error() string {
	return fmt.Sprintf("%s: state %s: %s %v -> %v: %s", e.Game, e.State, e.Var, e.Prev, e.Value, e.Reason)
}

func (e *StateMachineError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return ErrInconsistent
}

// Inconsistent builds the error a handler returns to reject t in s.
func Inconsistent(s State, t Transition, reason string) *StateMachineError {
	return &StateMachineError{
		State:  s.Name(),
		Var:    t.Var,
		Prev:   t.Prev,
		Value:  t.Value,
		Reason: reason,
	}
}
