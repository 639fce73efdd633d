package notification

import (
	"context"
	"time"
)

// Notifier is the write side used by other workflows.
type Notifier interface {
	Create(ctx context.Context, req CreateNotificationRequest) (NotificationResponse, error)
}

type NotificationService interface {
	Notifier

	List(ctx context.Context, recipientID string, limit int) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context, recipientID string) (UnreadCountResponse, error)
	MarkAsRead(ctx context.Context, id string, recipientID string) (NotificationResponse, error)
	MarkAllAsRead(ctx context.Context, recipientID string) (MarkAllReadResponse, error)
	Delete(ctx context.Context, id string, recipientID string) error

	// PurgeRead removes read notifications older than retention.
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}
