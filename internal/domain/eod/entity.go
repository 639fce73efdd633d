package eod

import "time"

type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusBlocked    Status = "Blocked"
)

type Entry struct {
	ID              string
	UserID          string
	Date            time.Time
	ProjectName     string
	TaskDescription string
	HoursSpent      float64
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	UserName        *string
	UserRole        *string
	UserDesignation *string
}
