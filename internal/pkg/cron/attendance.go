package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/attendance"
)

const LockPastAttendanceJob = "lock_past_attendance"

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{attendanceService: attendanceService, interval: interval}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(LockPastAttendanceJob, j.interval, j.LockPastAttendance)
}

// LockPastAttendance freezes every record dated before today.
func (j *AttendanceJobs) LockPastAttendance(ctx context.Context) error {
	locked, err := j.attendanceService.LockPast(ctx)
	if err != nil {
		return err
	}
	if locked > 0 {
		slog.Info("Cron: past attendance locked", "count", locked)
	}
	return nil
}
