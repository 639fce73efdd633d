package report

import "errors"

var (
	ErrMonthYearRequired = errors.New("Month and Year required")
)
