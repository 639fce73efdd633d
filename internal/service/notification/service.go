package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/notification"
)

type service struct {
	repo notification.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates the notification outbox service. Notifications are written
// synchronously; clients poll the list and unread-count endpoints.
func NewNotificationService(repo notification.NotificationRepository) notification.NotificationService {
	return &service{repo: repo, now: time.Now}
}

// Create implements notification.Notifier.
func (s *service) Create(ctx context.Context, req notification.CreateNotificationRequest) (notification.NotificationResponse, error) {
	if strings.TrimSpace(req.RecipientID) == "" {
		return notification.NotificationResponse{}, notification.ErrRecipientRequired
	}
	if !req.Type.Valid() {
		req.Type = notification.SeverityInfo
	}

	created, err := s.repo.Create(ctx, notification.Notification{
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
	})
	if err != nil {
		return notification.NotificationResponse{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification.NewNotificationResponse(created), nil
}

// List returns the newest notifications for the recipient.
func (s *service) List(ctx context.Context, recipientID string, limit int) ([]notification.NotificationResponse, error) {
	if limit < 1 {
		limit = notification.DefaultListLimit
	}
	if limit > notification.MaxListLimit {
		limit = notification.MaxListLimit
	}

	items, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]notification.NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, notification.NewNotificationResponse(n))
	}
	return resp, nil
}

func (s *service) UnreadCount(ctx context.Context, recipientID string) (notification.UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return notification.UnreadCountResponse{}, err
	}
	return notification.UnreadCountResponse{UnreadCount: count}, nil
}

// MarkAsRead is idempotent; read_at keeps its first value.
func (s *service) MarkAsRead(ctx context.Context, id string, recipientID string) (notification.NotificationResponse, error) {
	n, err := s.repo.MarkAsRead(ctx, id, recipientID)
	if err != nil {
		return notification.NotificationResponse{}, err
	}
	return notification.NewNotificationResponse(n), nil
}

func (s *service) MarkAllAsRead(ctx context.Context, recipientID string) (notification.MarkAllReadResponse, error) {
	updated, err := s.repo.MarkAllAsRead(ctx, recipientID)
	if err != nil {
		return notification.MarkAllReadResponse{}, err
	}
	return notification.MarkAllReadResponse{Updated: updated}, nil
}

func (s *service) Delete(ctx context.Context, id string, recipientID string) error {
	return s.repo.Delete(ctx, id, recipientID)
}

// PurgeRead implements notification.NotificationService.
func (s *service) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	deleted, err := s.repo.PurgeRead(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge read notifications: %w", err)
	}
	if deleted > 0 {
		slog.Info("Read notifications purged", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
