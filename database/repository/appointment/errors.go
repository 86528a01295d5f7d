package appointmentRepo

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no appointment matches the given ID.
var ErrNotFound = errors.New("appointment not found")

// ErrInvalidTransition is returned for status changes other than
// confirmed -> cancelled.
var ErrInvalidTransition = errors.New("invalid appointment status transition")

// ConflictError signals that the slot key was already taken by a
// non-cancelled appointment at commit time.
type ConflictError struct {
	BusinessID string
	EmployeeID string
	When       time.Time
}

func (e *ConflictError) Error() string {
	if e.EmployeeID != "" {
		return fmt.Sprintf("slot %s already booked for employee %s at business %s",
			e.When.Format("2006-01-02 15:04"), e.EmployeeID, e.BusinessID)
	}
	return fmt.Sprintf("slot %s already booked at business %s",
		e.When.Format("2006-01-02 15:04"), e.BusinessID)
}

// IsConflict reports whether err is a commit-time slot conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
