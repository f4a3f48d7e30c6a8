package services

import "fmt"

// ConflictError covers every precondition failure of class (b): overlapping
// bookings, overdue reservations, wrong vehicle state, odometer regression.
// The message names the conflicting party or date and is surfaced verbatim to
// the operator. A rejected operation is a no-op on state.
type ConflictError struct {
	Message  string
	Conflict *Conflict
}

func (e *ConflictError) Error() string {
	return e.Message
}

func newConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func conflictErrorFrom(c *Conflict) *ConflictError {
	return &ConflictError{Message: c.Message(), Conflict: c}
}
