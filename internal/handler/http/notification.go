package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
)

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService notification.NotificationService) NotificationHandler {
	return &notificationHandlerImpl{
		notifService: notifService,
	}
}

// List returns the newest notifications for the authenticated user
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	limit := getIntQueryParam(r, "limit", notification.DefaultListLimit)

	notifications, err := h.notifService.List(r.Context(), caller.ID, limit)
	if err != nil {
		slog.Error("ListNotifications service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, notifications)
}

// UnreadCount returns the unread notification count
func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	count, err := h.notifService.UnreadCount(r.Context(), caller.ID)
	if err != nil {
		slog.Error("UnreadCount service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, count)
}

// MarkAsRead marks a single notification as read
func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, ok := getIDParam(r)
	if !ok {
		response.HandleError(w, notification.ErrNotificationNotFound)
		return
	}

	updated, err := h.notifService.MarkAsRead(r.Context(), id, caller.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", updated)
}

// MarkAllAsRead marks every notification of the user as read
func (h *notificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.notifService.MarkAllAsRead(r.Context(), caller.ID)
	if err != nil {
		slog.Error("MarkAllAsRead service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", result)
}

// Delete removes a notification owned by the user
func (h *notificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCallerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, ok := getIDParam(r)
	if !ok {
		response.HandleError(w, notification.ErrNotificationNotFound)
		return
	}

	if err := h.notifService.Delete(r.Context(), id, caller.ID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification deleted", nil)
}
