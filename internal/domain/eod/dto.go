package eod

import (
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

const HistoryLimit = 50

type SubmitEntryRequest struct {
	Date            string  `json:"date"`
	ProjectName     string  `json:"project_name" validate:"required,max=255"`
	TaskDescription string  `json:"task_description" validate:"required"`
	HoursSpent      float64 `json:"hours_spent" validate:"gt=0,lte=24"`
	Status          string  `json:"status" validate:"omitempty,oneof='In Progress' Completed Blocked"`
}

func (r *SubmitEntryRequest) Validate() error {
	r.ProjectName = strings.TrimSpace(r.ProjectName)
	r.TaskDescription = strings.TrimSpace(r.TaskDescription)
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if r.Date != "" {
		if _, err := validator.ParseDate(r.Date, time.UTC); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: ErrInvalidDate.Error(),
			})
		}
	}
	// Stored as NUMERIC(4,2).
	if cents := r.HoursSpent * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
		errs = append(errs, validator.ValidationError{
			Field:   "hours_spent",
			Message: "hours_spent must have at most 2 decimal places",
		})
	}
	if r.Status == "" {
		r.Status = string(StatusInProgress)
	}
	return errs.Err()
}

// TeamFilter mirrors the /eod/team query string.
type TeamFilter struct {
	StartDate string
	EndDate   string
	Date      string
	UserID    string
	Project   string
}

type EntryUser struct {
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Designation *string `json:"designation"`
}

type EntryResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Date            string     `json:"date"`
	ProjectName     string     `json:"project_name"`
	TaskDescription string     `json:"task_description"`
	HoursSpent      float64    `json:"hours_spent"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	User            *EntryUser `json:"user,omitempty"`
}

func NewEntryResponse(e Entry) EntryResponse {
	resp := EntryResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		Date:            e.Date.Format(validator.DateLayout),
		ProjectName:     e.ProjectName,
		TaskDescription: e.TaskDescription,
		HoursSpent:      e.HoursSpent,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt,
	}
	if e.UserName != nil {
		u := &EntryUser{Name: *e.UserName, Designation: e.UserDesignation}
		if e.UserRole != nil {
			u.Role = *e.UserRole
		}
		resp.User = u
	}
	return resp
}
