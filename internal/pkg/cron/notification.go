package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/notification"
)

const PurgeReadNotificationsJob = "purge_read_notifications"

type NotificationJobs struct {
	notificationService notification.NotificationService
	retention           time.Duration
	interval            time.Duration
}

func NewNotificationJobs(notificationService notification.NotificationService, retention, interval time.Duration) *NotificationJobs {
	return &NotificationJobs{
		notificationService: notificationService,
		retention:           retention,
		interval:            interval,
	}
}

func (j *NotificationJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(PurgeReadNotificationsJob, j.interval, j.PurgeReadNotifications)
}

// PurgeReadNotifications removes read notifications past the retention window.
func (j *NotificationJobs) PurgeReadNotifications(ctx context.Context) error {
	deleted, err := j.notificationService.PurgeRead(ctx, j.retention)
	if err != nil {
		return err
	}
	slog.Info("Cron: read notifications purged", "count", deleted, "retention", j.retention)
	return nil
}
