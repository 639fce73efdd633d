package attendance

import (
	"time"
)

type Status string

const (
	StatusWFO   Status = "WFO"
	StatusWFH   Status = "WFH"
	StatusLeave Status = "Leave"

	// NotMarked is reported for users without a record on the requested day.
	NotMarked = "Not Marked"
)

type Attendance struct {
	ID          string
	UserID      string
	Date        time.Time
	Status      Status
	CheckInTime *time.Time
	IsLocked    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamStatusRow is one visible user joined with their record for a day, if any.
type TeamStatusRow struct {
	UserID      string
	Name        string
	Email       string
	Avatar      *string
	Role        string
	Department  *string
	Designation *string
	ManagerID   *string

	Status      *Status
	CheckInTime *time.Time
}

type ExportRow struct {
	Date        time.Time
	Name        string
	Role        string
	Department  *string
	Status      Status
	CheckInTime *time.Time
}

// ExportResult carries the resolved inclusive range with the rows.
type ExportResult struct {
	Start time.Time
	End   time.Time
	Rows  []ExportRow
}
