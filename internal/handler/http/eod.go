package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/eod"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

var eodExportHeader = []string{"Date", "Name", "Role", "Project", "Task", "Hours", "Status"}

type EODHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	GetMyEntries(w http.ResponseWriter, r *http.Request)
	GetTeamEntries(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type eodHandlerImpl struct {
	eodService eod.EODService
	loc        *time.Location
}

func NewEODHandler(eodService eod.EODService, loc *time.Location) EODHandler {
	return &eodHandlerImpl{
		eodService: eodService,
		loc:        loc,
	}
}

// Submit implements EODHandler.
func (h *eodHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req eod.SubmitEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitEOD decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	entry, err := h.eodService.Submit(r.Context(), caller, req)
	if err != nil {
		slog.Error("SubmitEOD service error", "user_id", caller.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "EOD submitted successfully", entry)
}

// GetMyEntries implements EODHandler.
func (h *eodHandlerImpl) GetMyEntries(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	entries, err := h.eodService.MyHistory(r.Context(), caller)
	if err != nil {
		slog.Error("EODHistory service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// GetTeamEntries implements EODHandler.
func (h *eodHandlerImpl) GetTeamEntries(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	entries, err := h.eodService.TeamEntries(r.Context(), caller, teamFilterFromQuery(r))
	if err != nil {
		slog.Error("EODTeam service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// Export implements EODHandler.
func (h *eodHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	// Exports are always bounded: start defaults to today, end to start.
	filter := teamFilterFromQuery(r)
	if filter.StartDate == "" {
		filter.StartDate = filter.Date
	}
	if filter.StartDate == "" {
		filter.StartDate = time.Now().In(h.loc).Format(validator.DateLayout)
	}
	if filter.EndDate == "" {
		filter.EndDate = filter.StartDate
	}

	entries, err := h.eodService.TeamEntries(r.Context(), caller, filter)
	if err != nil {
		slog.Error("EODExport service error", "error", err)
		response.HandleError(w, err)
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		var name, role string
		if entry.User != nil {
			name = entry.User.Name
			role = entry.User.Role
		}
		rows = append(rows, []string{
			entry.Date,
			name,
			role,
			entry.ProjectName,
			entry.TaskDescription,
			strconv.FormatFloat(entry.HoursSpent, 'f', -1, 64),
			string(entry.Status),
		})
	}

	filename := fmt.Sprintf("eod_%s_to_%s.csv", filter.StartDate, filter.EndDate)
	writeCSVAttachment(w, filename, eodExportHeader, rows)
}

func teamFilterFromQuery(r *http.Request) eod.TeamFilter {
	query := r.URL.Query()
	return eod.TeamFilter{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Date:      query.Get("date"),
		UserID:    query.Get("userId"),
		Project:   query.Get("project"),
	}
}
