package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

type ReportServiceImpl struct {
	report.ReportRepository
	scope user.ScopeResolver
	loc   *time.Location
	now   func() time.Time
}

func NewReportService(reportRepository report.ReportRepository, scope user.ScopeResolver, loc *time.Location) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository: reportRepository,
		scope:            scope,
		loc:              loc,
		now:              time.Now,
	}
}

// Stats implements report.ReportService.
func (r *ReportServiceImpl) Stats(ctx context.Context, caller user.Caller) (report.StatsResponse, error) {
	visible, err := r.visible(ctx, caller)
	if err != nil {
		return report.StatsResponse{}, err
	}
	today := r.today()

	var resp report.StatsResponse
	if resp.TotalUsers, err = r.ReportRepository.CountActiveUsers(ctx, visible); err != nil {
		return report.StatsResponse{}, fmt.Errorf("failed to count users: %w", err)
	}
	present := []string{string(attendance.StatusWFO), string(attendance.StatusWFH)}
	if resp.PresentToday, err = r.ReportRepository.CountAttendance(ctx, visible, today, present); err != nil {
		return report.StatsResponse{}, fmt.Errorf("failed to count present users: %w", err)
	}
	onLeave := []string{string(attendance.StatusLeave)}
	if resp.OnLeave, err = r.ReportRepository.CountAttendance(ctx, visible, today, onLeave); err != nil {
		return report.StatsResponse{}, fmt.Errorf("failed to count users on leave: %w", err)
	}

	if caller.IsAdmin() {
		if resp.PendingRequests, err = r.ReportRepository.CountPendingUsers(ctx); err != nil {
			return report.StatsResponse{}, fmt.Errorf("failed to count pending users: %w", err)
		}
		pendingLeaves, err := r.ReportRepository.CountPendingLeaves(ctx, nil)
		if err != nil {
			return report.StatsResponse{}, fmt.Errorf("failed to count pending leaves: %w", err)
		}
		resp.PendingLeaveRequests = &pendingLeaves
		return resp, nil
	}

	// A nil scope would count every pending request.
	if len(visible) == 0 {
		return resp, nil
	}
	if resp.PendingRequests, err = r.ReportRepository.CountPendingLeaves(ctx, visible); err != nil {
		return report.StatsResponse{}, fmt.Errorf("failed to count pending leaves: %w", err)
	}
	return resp, nil
}

// MonthlyMatrix implements report.ReportService. Days without a record are absent from the row.
func (r *ReportServiceImpl) MonthlyMatrix(ctx context.Context, caller user.Caller, req report.PeriodRequest) (report.MonthlyReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReportResponse{}, err
	}
	visible, err := r.visible(ctx, caller)
	if err != nil {
		return report.MonthlyReportResponse{}, err
	}

	start, end := monthRange(req.Year, req.Month)
	resp := report.MonthlyReportResponse{
		Month:       req.Month,
		Year:        req.Year,
		DaysInMonth: end.Day(),
		Matrix:      []report.MonthlyRow{},
	}

	users, err := r.ReportRepository.ListActiveUsers(ctx, visible)
	if err != nil {
		return report.MonthlyReportResponse{}, err
	}
	if len(users) == 0 {
		return resp, nil
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	cells, err := r.ReportRepository.ListAttendance(ctx, ids, start, end)
	if err != nil {
		return report.MonthlyReportResponse{}, err
	}

	byUser := make(map[string]map[string]string, len(users))
	for _, c := range cells {
		if byUser[c.UserID] == nil {
			byUser[c.UserID] = make(map[string]string)
		}
		byUser[c.UserID][c.Date.Format(validator.DateLayout)] = c.Status
	}

	for _, u := range users {
		days := byUser[u.ID]
		if days == nil {
			days = map[string]string{}
		}
		resp.Matrix = append(resp.Matrix, report.MonthlyRow{
			User: report.MonthlyUser{ID: u.ID, Name: u.Name},
			Days: days,
		})
	}
	return resp, nil
}

// LeaveUtilization implements report.ReportService.
func (r *ReportServiceImpl) LeaveUtilization(ctx context.Context, caller user.Caller) ([]report.LeaveUtilizationRow, error) {
	visible, err := r.visible(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(visible) == 0 {
		return []report.LeaveUtilizationRow{}, nil
	}
	return r.ReportRepository.LeaveUtilization(ctx, visible)
}

// ProjectPerformance implements report.ReportService. Totals cover every user, not the caller's scope.
func (r *ReportServiceImpl) ProjectPerformance(ctx context.Context, caller user.Caller) ([]report.ProjectPerformanceRow, error) {
	if !caller.CanManage() {
		return nil, user.ErrManagerAccessRequired
	}
	return r.ReportRepository.ProjectPerformance(ctx)
}

// EODCompliance implements report.ReportService.
func (r *ReportServiceImpl) EODCompliance(ctx context.Context, caller user.Caller, req report.PeriodRequest) (report.EODComplianceResponse, error) {
	if err := req.Validate(); err != nil {
		return report.EODComplianceResponse{}, err
	}
	visible, err := r.visible(ctx, caller)
	if err != nil {
		return report.EODComplianceResponse{}, err
	}

	start, end := monthRange(req.Year, req.Month)
	expected := ExpectedWorkdays(start, end, r.today())
	resp := report.EODComplianceResponse{
		Month:        req.Month,
		Year:         req.Year,
		ExpectedDays: expected,
		Rows:         []report.EODComplianceRow{},
	}

	users, err := r.ReportRepository.ListActiveUsers(ctx, visible)
	if err != nil {
		return report.EODComplianceResponse{}, err
	}
	if len(users) == 0 {
		return resp, nil
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	submitted, err := r.ReportRepository.SubmittedEODDays(ctx, ids, start, end)
	if err != nil {
		return report.EODComplianceResponse{}, err
	}

	for _, u := range users {
		rate, missing := Compliance(submitted[u.ID], expected)
		resp.Rows = append(resp.Rows, report.EODComplianceRow{
			UserID:    u.ID,
			Name:      u.Name,
			Submitted: submitted[u.ID],
			Expected:  expected,
			Rate:      rate,
			Missing:   missing,
		})
	}
	return resp, nil
}

// visible gates every scoped report to Manager/Admin callers.
func (r *ReportServiceImpl) visible(ctx context.Context, caller user.Caller) ([]string, error) {
	if !caller.CanManage() {
		return nil, user.ErrManagerAccessRequired
	}
	return r.scope.VisibleUserIDs(ctx, caller)
}

func (r *ReportServiceImpl) today() time.Time {
	now := r.now().In(r.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// monthRange returns the first and last day of the month as UTC midnights.
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// ExpectedWorkdays counts Mon-Fri days from start through min(today, end).
func ExpectedWorkdays(start, end, today time.Time) int {
	if today.Before(end) {
		end = today
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// Compliance returns the rounded submission rate capped at 100 and the missing day count.
func Compliance(submitted, expected int) (rate int, missing int) {
	if expected <= 0 {
		return 0, 0
	}
	rate = int(math.Round(float64(submitted) / float64(expected) * 100))
	if rate > 100 {
		rate = 100
	}
	missing = expected - submitted
	if missing < 0 {
		missing = 0
	}
	return rate, missing
}
