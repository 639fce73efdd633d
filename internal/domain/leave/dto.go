package leave

import (
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	Type      string `json:"type" validate:"required,oneof='Sick Leave' 'Casual Leave' WFH Permission"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Reason    string `json:"reason" validate:"required,max=1000"`
}

func (r *ApplyLeaveRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}
	return errs.Err()
}

type ActionLeaveRequest struct {
	Status         string  `json:"status" validate:"required,oneof=Approved Rejected"`
	ManagerRemarks *string `json:"manager_remarks" validate:"omitempty,max=1000"`
}

func (r *ActionLeaveRequest) Validate() error {
	return validator.Struct(r)
}

// MyRequestsFilter applies only when both Month and Year are set.
type MyRequestsFilter struct {
	Month *int
	Year  *int
}

func (f MyRequestsFilter) Validate() error {
	if f.Month == nil || f.Year == nil {
		return nil
	}
	return validator.ValidateMonthYear(*f.Month, *f.Year)
}

// Period returns the filter as a date range, or nil when unset.
func (f MyRequestsFilter) Period() *Period {
	if f.Month == nil || f.Year == nil {
		return nil
	}
	start := time.Date(*f.Year, time.Month(*f.Month), 1, 0, 0, 0, 0, time.UTC)
	return &Period{Start: start, End: start.AddDate(0, 1, 0)}
}

type RequesterResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Avatar      *string `json:"avatar"`
	Designation *string `json:"designation"`
}

type LeaveRequestResponse struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	Type           Type               `json:"type"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	Reason         string             `json:"reason"`
	Status         Status             `json:"status"`
	ManagerRemarks *string            `json:"manager_remarks"`
	ReviewedBy     *string            `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	User           *RequesterResponse `json:"user,omitempty"`
}

func NewLeaveRequestResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:             l.ID,
		UserID:         l.UserID,
		Type:           l.Type,
		StartDate:      l.StartDate.Format(validator.DateLayout),
		EndDate:        l.EndDate.Format(validator.DateLayout),
		Reason:         l.Reason,
		Status:         l.Status,
		ManagerRemarks: l.ManagerRemarks,
		ReviewedBy:     l.ReviewedBy,
		ReviewedAt:     l.ReviewedAt,
		CreatedAt:      l.CreatedAt,
	}
	if l.Requester != nil {
		resp.User = &RequesterResponse{
			ID:          l.Requester.ID,
			Name:        l.Requester.Name,
			Avatar:      l.Requester.Avatar,
			Designation: l.Requester.Designation,
		}
	}
	return resp
}
