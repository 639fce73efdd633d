package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert creates the (user, date) record or overwrites status and check-in of an
	// unlocked one. Returns ErrRecordLocked when the existing record is locked.
	Upsert(ctx context.Context, a Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// ListByUser returns the newest records first.
	ListByUser(ctx context.Context, userID string, limit int) ([]Attendance, error)

	// TeamStatus returns one row per user in userIDs, left joined with the record for date.
	TeamStatus(ctx context.Context, userIDs []string, date time.Time, filter TeamStatusFilter) ([]TeamStatusRow, error)

	ListForExport(ctx context.Context, userIDs []string, start, end time.Time) ([]ExportRow, error)

	SetLocked(ctx context.Context, id string, locked bool) (Attendance, error)

	// LockBefore locks every unlocked record dated before date.
	LockBefore(ctx context.Context, date time.Time) (int64, error)
}
