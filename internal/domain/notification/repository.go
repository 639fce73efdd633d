package notification

import (
	"context"
	"time"
)

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)

	// ListByRecipient returns the newest notifications first.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)

	// MarkAsRead returns ErrNotificationNotFound unless recipientID owns the notification.
	MarkAsRead(ctx context.Context, id string, recipientID string) (Notification, error)
	MarkAllAsRead(ctx context.Context, recipientID string) (int64, error)

	// Delete returns ErrNotificationNotFound unless recipientID owns the notification.
	Delete(ctx context.Context, id string, recipientID string) error

	// PurgeRead deletes read notifications created before cutoff.
	PurgeRead(ctx context.Context, cutoff time.Time) (int64, error)
}
