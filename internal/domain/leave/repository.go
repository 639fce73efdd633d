package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// ListByUser orders newest created first; period limits start_date when set.
	ListByUser(ctx context.Context, userID string, period *Period) ([]LeaveRequest, error)

	// ListPendingByManager returns Pending requests of managerID's direct reports, oldest first.
	ListPendingByManager(ctx context.Context, managerID string) ([]LeaveRequest, error)

	// Resolve moves a Pending request to a terminal status.
	// Returns ErrLeaveRequestAlreadyProcessed when it is no longer Pending.
	Resolve(ctx context.Context, id string, status Status, remarks *string, reviewerID string) (LeaveRequest, error)
}

// Period is a half-open [Start, End) date range.
type Period struct {
	Start time.Time
	End   time.Time
}
