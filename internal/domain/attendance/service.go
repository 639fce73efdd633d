package attendance

import (
	"context"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
)

type AttendanceService interface {
	// Mark records the caller's status for a day, today by default.
	Mark(ctx context.Context, caller user.Caller, req MarkAttendanceRequest) (AttendanceResponse, error)

	// History returns the caller's latest records, newest first.
	History(ctx context.Context, caller user.Caller) ([]AttendanceResponse, error)

	// TeamStatus returns every visible user's status for a day.
	TeamStatus(ctx context.Context, caller user.Caller, filter TeamStatusFilter) ([]TeamStatusResponse, error)

	Export(ctx context.Context, caller user.Caller, filter ExportFilter) (ExportResult, error)

	SetLock(ctx context.Context, id string, req LockAttendanceRequest) (AttendanceResponse, error)

	// LockPast locks all records dated before today.
	LockPast(ctx context.Context) (int64, error)
}
