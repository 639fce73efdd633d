package report

import (
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

// PeriodRequest selects a calendar month.
type PeriodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	return validator.ValidateMonthYear(r.Month, r.Year)
}

// ========================================
// STATS
// ========================================

type StatsResponse struct {
	TotalUsers      int `json:"total_users"`
	PresentToday    int `json:"present_today"`
	OnLeave         int `json:"on_leave"`
	PendingRequests int `json:"pending_requests"`
	// Admin only
	PendingLeaveRequests *int `json:"pending_leave_requests,omitempty"`
}

// ========================================
// MONTHLY MATRIX
// ========================================

type MonthlyUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MonthlyRow struct {
	User MonthlyUser `json:"user"`
	// Days maps YYYY-MM-DD to the attendance status of that day.
	Days map[string]string `json:"days"`
}

type MonthlyReportResponse struct {
	Month       int          `json:"month"`
	Year        int          `json:"year"`
	DaysInMonth int          `json:"days_in_month"`
	Matrix      []MonthlyRow `json:"matrix"`
}

// ========================================
// LEAVE UTILIZATION
// ========================================

type LeaveUtilizationRow struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	LeaveType string `json:"leave_type"`
	Count     int    `json:"count"`
	TotalDays int    `json:"total_days"`
}

// ========================================
// PROJECT PERFORMANCE
// ========================================

type ProjectPerformanceRow struct {
	ProjectName      string  `json:"project_name"`
	TotalHours       float64 `json:"total_hours"`
	ContributorCount int     `json:"contributor_count"`
}

// ========================================
// EOD COMPLIANCE
// ========================================

type EODComplianceRow struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Submitted int    `json:"submitted"`
	Expected  int    `json:"expected"`
	Rate      int    `json:"rate"`
	Missing   int    `json:"missing"`
}

type EODComplianceResponse struct {
	Month        int                `json:"month"`
	Year         int                `json:"year"`
	ExpectedDays int                `json:"expected_days"`
	Rows         []EODComplianceRow `json:"rows"`
}
