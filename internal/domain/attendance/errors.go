package attendance

import "errors"

var (
	// ErrCutoffPassed is wrapped with the configured cutoff time by the service.
	ErrCutoffPassed       = errors.New("Attendance marking currently closed")
	ErrRecordLocked       = errors.New("Attendance record is locked.")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidDateRange   = errors.New("endDate must not be before startDate")
)
