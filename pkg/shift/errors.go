package shift

import (
	"errors"
	"fmt"
)

// Common errors returned by the lifecycle manager.
var (
	// ErrNotFound is returned when the referenced shift does not exist.
	ErrNotFound = errors.New("shift not found")

	// ErrInvalidTransition is returned when an operation is not allowed
	// from the shift's current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNoEffect is returned by conditional store writes whose
	// precondition did not hold at write time.
	ErrNoEffect = errors.New("conditional update had no effect")
)

// TransitionError reports a rejected lifecycle operation with the state it
// was rejected from.
type TransitionError struct {
	ShiftID uint64
	Op      string // "claim" or "cancel"
	From    State
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s shift %d in state %s", e.Op, e.ShiftID, e.From)
}

// Unwrap makes the error match ErrInvalidTransition via errors.Is.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
