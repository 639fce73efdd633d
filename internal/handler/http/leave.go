package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetPendingRequests(w http.ResponseWriter, r *http.Request)
	Action(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// Apply implements LeaveHandler.
func (l *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req leave.ApplyLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApplyLeave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := l.leaveService.Apply(r.Context(), caller, req)
	if err != nil {
		slog.Error("ApplyLeave service error", "user_id", caller.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := leave.MyRequestsFilter{
		Month: getOptionalIntQueryParam(r, "month"),
		Year:  getOptionalIntQueryParam(r, "year"),
	}

	requests, err := l.leaveService.MyRequests(r.Context(), caller, filter)
	if err != nil {
		slog.Error("MyLeaveRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// GetPendingRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requests, err := l.leaveService.PendingForManager(r.Context(), caller)
	if err != nil {
		slog.Error("PendingLeaveRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// Action implements LeaveHandler.
func (l *LeaveHandlerImpl) Action(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, ok := getIDParam(r)
	if !ok {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}

	var req leave.ActionLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("LeaveAction decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := l.leaveService.Action(r.Context(), caller, id, req)
	if err != nil {
		slog.Error("LeaveAction service error", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(updated.Status), updated)
}
