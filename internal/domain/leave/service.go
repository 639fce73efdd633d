package leave

import (
	"context"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
)

type LeaveService interface {
	// Apply creates a Pending request and notifies the requester's manager.
	Apply(ctx context.Context, caller user.Caller, req ApplyLeaveRequest) (LeaveRequestResponse, error)
	MyRequests(ctx context.Context, caller user.Caller, filter MyRequestsFilter) ([]LeaveRequestResponse, error)
	PendingForManager(ctx context.Context, caller user.Caller) ([]LeaveRequestResponse, error)
	// Action approves or rejects a Pending request in the caller's scope and notifies the requester.
	Action(ctx context.Context, caller user.Caller, id string, req ActionLeaveRequest) (LeaveRequestResponse, error)
}
