package calendar

import "errors"

var (
	// Scheduling constraint violations raised by the assignment gate.
	ErrNonWorkingDay    = errors.New("due date falls on a non-working day for the assignee")
	ErrCapacityExceeded = errors.New("assignment exceeds the assignee's daily capacity")

	// Calendar configuration errors.
	ErrSpecialDayNotFound = errors.New("special day not found")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrInvalidRequestData = errors.New("invalid request data")
)
