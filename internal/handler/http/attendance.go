package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

var attendanceExportHeader = []string{"Date", "Name", "Role", "Department", "Status", "CheckInTime"}

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	SetLock(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		loc:               loc,
	}
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("MarkAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.Mark(r.Context(), caller, req)
	if err != nil {
		slog.Error("MarkAttendance service error", "user_id", caller.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance marked successfully", record)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	records, err := h.attendanceService.History(r.Context(), caller)
	if err != nil {
		slog.Error("AttendanceHistory service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Dashboard implements AttendanceHandler.
func (h *attendanceHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	query := r.URL.Query()
	filter := attendance.TeamStatusFilter{
		Date:       query.Get("date"),
		Role:       query.Get("role"),
		Department: query.Get("department"),
	}

	rows, err := h.attendanceService.TeamStatus(r.Context(), caller, filter)
	if err != nil {
		slog.Error("AttendanceDashboard service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	query := r.URL.Query()
	filter := attendance.ExportFilter{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}

	result, err := h.attendanceService.Export(r.Context(), caller, filter)
	if err != nil {
		slog.Error("AttendanceExport service error", "error", err)
		response.HandleError(w, err)
		return
	}

	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		department := ""
		if row.Department != nil {
			department = *row.Department
		}
		checkIn := ""
		if row.CheckInTime != nil {
			checkIn = row.CheckInTime.In(h.loc).Format("15:04:05")
		}
		rows = append(rows, []string{
			row.Date.Format(validator.DateLayout),
			row.Name,
			row.Role,
			department,
			string(row.Status),
			checkIn,
		})
	}

	filename := fmt.Sprintf("attendance_%s_to_%s.csv",
		result.Start.Format(validator.DateLayout),
		result.End.Format(validator.DateLayout),
	)
	writeCSVAttachment(w, filename, attendanceExportHeader, rows)
}

// SetLock implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetLock(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		response.HandleError(w, attendance.ErrAttendanceNotFound)
		return
	}

	var req attendance.LockAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetAttendanceLock decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.SetLock(r.Context(), id, req)
	if err != nil {
		slog.Error("SetAttendanceLock service error", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	message := "Attendance unlocked successfully"
	if record.IsLocked {
		message = "Attendance locked successfully"
	}
	response.SuccessWithMessage(w, message, record)
}
