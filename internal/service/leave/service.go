package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
	userservice "github.com/cmlabs-hris/workday-backend-go/internal/service/user"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	userRepository user.UserRepository
	scope          user.ScopeResolver
	notifier       notification.Notifier
}

func NewLeaveService(
	leaveRequestRepository leave.LeaveRequestRepository,
	userRepository user.UserRepository,
	scope user.ScopeResolver,
	notifier notification.Notifier,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		userRepository:         userRepository,
		scope:                  scope,
		notifier:               notifier,
	}
}

// Apply implements leave.LeaveService.
func (l *LeaveServiceImpl) Apply(ctx context.Context, caller user.Caller, req leave.ApplyLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	requester, err := l.userRepository.GetByID(ctx, caller.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}

	// Validate already checked the layout.
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	created, err := l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		UserID:    requester.ID,
		Type:      leave.Type(req.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if requester.ManagerID != nil {
		l.notify(ctx, notification.CreateNotificationRequest{
			RecipientID: *requester.ManagerID,
			Type:        notification.SeverityInfo,
			Title:       "New Leave Request",
			Message: fmt.Sprintf("%s has requested for %s from %s to %s",
				requester.Name, created.Type,
				created.StartDate.Format(validator.DateLayout), created.EndDate.Format(validator.DateLayout)),
		})
	}

	slog.Info("Leave request created", "leave_request_id", created.ID, "user_id", requester.ID, "type", created.Type)
	return leave.NewLeaveRequestResponse(created), nil
}

// MyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) MyRequests(ctx context.Context, caller user.Caller, filter leave.MyRequestsFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := l.LeaveRequestRepository.ListByUser(ctx, caller.ID, filter.Period())
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// PendingForManager implements leave.LeaveService. Admins also see only their own direct reports.
func (l *LeaveServiceImpl) PendingForManager(ctx context.Context, caller user.Caller) ([]leave.LeaveRequestResponse, error) {
	if !caller.CanManage() {
		return nil, user.ErrManagerAccessRequired
	}

	requests, err := l.LeaveRequestRepository.ListPendingByManager(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// Action implements leave.LeaveService.
func (l *LeaveServiceImpl) Action(ctx context.Context, caller user.Caller, id string, req leave.ActionLeaveRequest) (leave.LeaveRequestResponse, error) {
	if !caller.CanManage() {
		return leave.LeaveRequestResponse{}, user.ErrManagerAccessRequired
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	existing, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	visible, err := l.scope.VisibleUserIDs(ctx, caller)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !userservice.Contains(visible, existing.UserID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}
	if existing.Status.IsTerminal() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	remarks := req.ManagerRemarks
	if remarks != nil && strings.TrimSpace(*remarks) == "" {
		remarks = nil
	}

	status := leave.Status(req.Status)
	resolved, err := l.LeaveRequestRepository.Resolve(ctx, id, status, remarks, caller.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	severity := notification.SeveritySuccess
	if status == leave.StatusRejected {
		severity = notification.SeverityWarning
	}
	message := fmt.Sprintf("Your %s request has been %s", resolved.Type, strings.ToLower(string(status)))
	if remarks != nil {
		message += ". Manager remarks: " + *remarks
	}
	l.notify(ctx, notification.CreateNotificationRequest{
		RecipientID: resolved.UserID,
		Type:        severity,
		Title:       "Leave Request " + string(status),
		Message:     message,
	})

	slog.Info("Leave request resolved", "leave_request_id", resolved.ID, "status", status, "reviewed_by", caller.ID)
	return leave.NewLeaveRequestResponse(resolved), nil
}

// notify never fails the workflow; the leave write has already been committed.
func (l *LeaveServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if _, err := l.notifier.Create(ctx, req); err != nil {
		slog.Error("Leave notification create error", "error", err, "recipient_id", req.RecipientID, "title", req.Title)
	}
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, leave.NewLeaveRequestResponse(r))
	}
	return resp
}
