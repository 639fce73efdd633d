package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	scope      user.ScopeResolver
	cutoffHour int
	loc        *time.Location
	now        func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	scope user.ScopeResolver,
	cutoffHour int,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		scope:                scope,
		cutoffHour:           cutoffHour,
		loc:                  loc,
		now:                  time.Now,
	}
}

// Mark implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Mark(ctx context.Context, caller user.Caller, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now().In(a.loc)
	today := calendarDay(now)

	date := today
	if req.Date != "" {
		parsed, err := validator.ParseDate(req.Date, a.loc)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		date = calendarDay(parsed)
	}

	// Only today's marks are cut off; past and future days are not.
	if date.Equal(today) && now.Hour() >= a.cutoffHour {
		return attendance.AttendanceResponse{}, fmt.Errorf("%w (Cutoff %s).", attendance.ErrCutoffPassed, hourLabel(a.cutoffHour))
	}

	checkIn := now.UTC()
	record, err := a.AttendanceRepository.Upsert(ctx, attendance.Attendance{
		UserID:      caller.ID,
		Date:        date,
		Status:      attendance.Status(req.Status),
		CheckInTime: &checkIn,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance marked", "user_id", caller.ID, "date", date.Format(validator.DateLayout), "status", record.Status)
	return attendance.NewAttendanceResponse(record), nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, caller user.Caller) ([]attendance.AttendanceResponse, error) {
	records, err := a.AttendanceRepository.ListByUser(ctx, caller.ID, attendance.HistoryLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, attendance.NewAttendanceResponse(r))
	}
	return resp, nil
}

// TeamStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TeamStatus(ctx context.Context, caller user.Caller, filter attendance.TeamStatusFilter) ([]attendance.TeamStatusResponse, error) {
	if !caller.CanManage() {
		return nil, user.ErrManagerAccessRequired
	}

	date, err := a.dayOrToday(filter.Date, "date")
	if err != nil {
		return nil, err
	}

	visible, err := a.scope.VisibleUserIDs(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(visible) == 0 {
		return []attendance.TeamStatusResponse{}, nil
	}

	rows, err := a.AttendanceRepository.TeamStatus(ctx, visible, date, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.TeamStatusResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, attendance.NewTeamStatusResponse(row))
	}
	return resp, nil
}

// Export implements attendance.AttendanceService. The range is inclusive on both ends.
func (a *AttendanceServiceImpl) Export(ctx context.Context, caller user.Caller, filter attendance.ExportFilter) (attendance.ExportResult, error) {
	if !caller.CanManage() {
		return attendance.ExportResult{}, user.ErrManagerAccessRequired
	}

	start, err := a.dayOrToday(filter.StartDate, "startDate")
	if err != nil {
		return attendance.ExportResult{}, err
	}
	end := start
	if filter.EndDate != "" {
		if end, err = a.dayOrToday(filter.EndDate, "endDate"); err != nil {
			return attendance.ExportResult{}, err
		}
	}
	if end.Before(start) {
		return attendance.ExportResult{}, attendance.ErrInvalidDateRange
	}

	result := attendance.ExportResult{Start: start, End: end, Rows: []attendance.ExportRow{}}
	visible, err := a.scope.VisibleUserIDs(ctx, caller)
	if err != nil {
		return attendance.ExportResult{}, err
	}
	if len(visible) == 0 {
		return result, nil
	}

	rows, err := a.AttendanceRepository.ListForExport(ctx, visible, start, end)
	if err != nil {
		return attendance.ExportResult{}, err
	}
	result.Rows = rows
	return result, nil
}

// SetLock implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SetLock(ctx context.Context, id string, req attendance.LockAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.SetLocked(ctx, id, *req.Locked)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance lock changed", "attendance_id", id, "locked", record.IsLocked)
	return attendance.NewAttendanceResponse(record), nil
}

// LockPast implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) LockPast(ctx context.Context) (int64, error) {
	locked, err := a.AttendanceRepository.LockBefore(ctx, a.today())
	if err != nil {
		return 0, fmt.Errorf("failed to lock past attendance: %w", err)
	}
	return locked, nil
}

func (a *AttendanceServiceImpl) today() time.Time {
	return calendarDay(a.now().In(a.loc))
}

func (a *AttendanceServiceImpl) dayOrToday(value string, field string) (time.Time, error) {
	if value == "" {
		return a.today(), nil
	}
	parsed, err := validator.ParseDate(value, a.loc)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{
			Field:   field,
			Message: field + " must be in YYYY-MM-DD format",
		}}
	}
	return calendarDay(parsed), nil
}

// calendarDay keeps the wall-clock date of t as UTC midnight, the form DATE columns are bound with.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func hourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}
