package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for report data access.
// Every userIDs argument is the caller's resolved scope.
type ReportRepository interface {
	CountActiveUsers(ctx context.Context, userIDs []string) (int, error)
	CountAttendance(ctx context.Context, userIDs []string, date time.Time, statuses []string) (int, error)
	// CountPendingUsers counts accounts with status Pending or NULL.
	CountPendingUsers(ctx context.Context) (int, error)
	// CountPendingLeaves counts Pending leave requests; a nil userIDs counts all of them.
	CountPendingLeaves(ctx context.Context, userIDs []string) (int, error)

	// ListActiveUsers returns active users in userIDs ordered by name.
	ListActiveUsers(ctx context.Context, userIDs []string) ([]UserRef, error)
	ListAttendance(ctx context.Context, userIDs []string, start, end time.Time) ([]AttendanceCell, error)

	// LeaveUtilization groups Approved requests of active users by (user, type).
	LeaveUtilization(ctx context.Context, userIDs []string) ([]LeaveUtilizationRow, error)

	// ProjectPerformance aggregates every EOD entry regardless of scope.
	ProjectPerformance(ctx context.Context) ([]ProjectPerformanceRow, error)

	// SubmittedEODDays counts distinct entry dates per user within [start, end].
	SubmittedEODDays(ctx context.Context, userIDs []string, start, end time.Time) (map[string]int, error)
}
