package report

import "time"

type UserRef struct {
	ID   string
	Name string
}

type AttendanceCell struct {
	UserID string
	Date   time.Time
	Status string
}
