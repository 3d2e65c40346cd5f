package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors the repository raises so the service can map them to
// application error codes. Raised from inside the registration and capacity
// transactions, where the distinction matters.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventFull     = errors.New("event is at full capacity")
	ErrDuplicateRSVP = errors.New("user already registered for this event")
)

// CapacityTooLowError rejects a capacity change that would drop below the
// live attendee count. Carries the count for a precise caller-facing message.
type CapacityTooLowError struct {
	AttendeeCount int
}

func (e *CapacityTooLowError) Error() string {
	return fmt.Sprintf("capacity below current attendance (%d attendees)", e.AttendeeCount)
}
