package gesture

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingGrabbed means a drop was committed while no node was grabbed.
	ErrNothingGrabbed = errors.New("no node is grabbed")
	// ErrGestureActive is returned when a gesture starts while another one is running.
	ErrGestureActive = errors.New("another gesture is active")
	// ErrDropIntoSubtree rejects dropping a node inside its own subtree.
	ErrDropIntoSubtree = errors.New("cannot drop a node inside its own subtree")
)

// InvariantError reports a gesture sequencing bug in the caller. It is not a user
// error and the gesture that raised it has already been discarded.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("gesture invariant violated in %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }
