package attendance

import (
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

const HistoryLimit = 31

type MarkAttendanceRequest struct {
	Status string `json:"status" validate:"required,oneof=WFO WFH Leave"`
	// Date is optional; YYYY-MM-DD or RFC3339, defaults to today.
	Date string `json:"date"`
}

func (r *MarkAttendanceRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Date != "" {
		if _, err := validator.ParseDate(r.Date, time.UTC); err != nil {
			return validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
	}
	return nil
}

type LockAttendanceRequest struct {
	Locked *bool `json:"locked" validate:"required"`
}

func (r *LockAttendanceRequest) Validate() error {
	return validator.Struct(r)
}

type TeamStatusFilter struct {
	Date       string
	Role       string
	Department string
}

type ExportFilter struct {
	StartDate string
	EndDate   string
}

type AttendanceResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Date        string     `json:"date"`
	Status      Status     `json:"status"`
	CheckInTime *time.Time `json:"check_in_time"`
	IsLocked    bool       `json:"is_locked"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Date:        a.Date.Format(validator.DateLayout),
		Status:      a.Status,
		CheckInTime: a.CheckInTime,
		IsLocked:    a.IsLocked,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type TeamStatusResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Avatar      *string    `json:"avatar"`
	Role        string     `json:"role"`
	Department  *string    `json:"department"`
	Designation *string    `json:"designation"`
	ManagerID   *string    `json:"manager_id"`
	Attendance  string     `json:"attendance"`
	CheckInTime *time.Time `json:"check_in_time"`
}

func NewTeamStatusResponse(row TeamStatusRow) TeamStatusResponse {
	status := NotMarked
	if row.Status != nil {
		status = string(*row.Status)
	}
	return TeamStatusResponse{
		ID:          row.UserID,
		Name:        row.Name,
		Email:       row.Email,
		Avatar:      row.Avatar,
		Role:        row.Role,
		Department:  row.Department,
		Designation: row.Designation,
		ManagerID:   row.ManagerID,
		Attendance:  status,
		CheckInTime: row.CheckInTime,
	}
}
