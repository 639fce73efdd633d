package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

const matrixLegend = "O = Office (WFO)   H = Home (WFH)   L = Leave   - = Not marked"

type ReportHandler interface {
	GetStats(w http.ResponseWriter, r *http.Request)
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
	ExportMonthlyReport(w http.ResponseWriter, r *http.Request)
	GetLeaveUtilization(w http.ResponseWriter, r *http.Request)
	GetProjectPerformance(w http.ResponseWriter, r *http.Request)
	GetEODCompliance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetStats handles GET /reports/stats
func (h *reportHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	stats, err := h.reportService.Stats(r.Context(), caller)
	if err != nil {
		slog.Error("ReportStats service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// GetMonthlyReport handles GET /reports/monthly
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req, err := parsePeriodQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.MonthlyMatrix(r.Context(), caller, req)
	if err != nil {
		slog.Error("MonthlyReport service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthlyReport handles GET /reports/monthly/export
func (h *reportHandlerImpl) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req, err := parsePeriodQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.MonthlyMatrix(r.Context(), caller, req)
	if err != nil {
		slog.Error("MonthlyReportExport service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Render fully before writing so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := export.WriteMatrixPDF(&buf, monthlySheet(result)); err != nil {
		slog.Error("MonthlyReportExport render error", "error", err)
		response.HandleError(w, err)
		return
	}

	setAttachmentHeaders(w, "application/pdf", fmt.Sprintf("attendance_%04d_%02d.pdf", result.Year, result.Month))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("MonthlyReportExport write error", "error", err)
	}
}

// GetLeaveUtilization handles GET /reports/leave-utilization
func (h *reportHandlerImpl) GetLeaveUtilization(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	rows, err := h.reportService.LeaveUtilization(r.Context(), caller)
	if err != nil {
		slog.Error("LeaveUtilization service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// GetProjectPerformance handles GET /reports/project-performance
func (h *reportHandlerImpl) GetProjectPerformance(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	rows, err := h.reportService.ProjectPerformance(r.Context(), caller)
	if err != nil {
		slog.Error("ProjectPerformance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// GetEODCompliance handles GET /reports/eod-compliance
func (h *reportHandlerImpl) GetEODCompliance(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req, err := parsePeriodQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.EODCompliance(r.Context(), caller, req)
	if err != nil {
		slog.Error("EODCompliance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// parsePeriodQuery requires numeric month and year; range checks happen in the service.
func parsePeriodQuery(r *http.Request) (report.PeriodRequest, error) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return report.PeriodRequest{}, report.ErrMonthYearRequired
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return report.PeriodRequest{}, report.ErrMonthYearRequired
	}
	return report.PeriodRequest{Month: month, Year: year}, nil
}

func monthlySheet(result report.MonthlyReportResponse) export.MatrixSheet {
	first := time.Date(result.Year, time.Month(result.Month), 1, 0, 0, 0, 0, time.UTC)
	sheet := export.MatrixSheet{
		Title:  "Attendance Report - " + first.Format("January 2006"),
		Legend: matrixLegend,
		Days:   result.DaysInMonth,
		Rows:   make([]export.MatrixRow, 0, len(result.Matrix)),
	}

	for _, row := range result.Matrix {
		cells := make([]string, result.DaysInMonth)
		for d := 0; d < result.DaysInMonth; d++ {
			day := first.AddDate(0, 0, d).Format(validator.DateLayout)
			cells[d] = statusInitial(row.Days[day])
		}
		sheet.Rows = append(sheet.Rows, export.MatrixRow{Label: row.User.Name, Cells: cells})
	}
	return sheet
}

func statusInitial(status string) string {
	switch attendance.Status(status) {
	case attendance.StatusWFO:
		return "O"
	case attendance.StatusWFH:
		return "H"
	case attendance.StatusLeave:
		return "L"
	default:
		return "-"
	}
}
