package eod

import "errors"

var (
	ErrInvalidDateRange = errors.New("endDate must not be before startDate")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
)
