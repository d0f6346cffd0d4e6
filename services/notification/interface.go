package notification

import (
	"context"

	notificationRepo "holistic/database/repository/notification"
	userRepo "holistic/database/repository/user"
	"holistic/models"
	"holistic/realtime"
)

// NotificationService stores notifications and fans them out over the push
// channels. Delivery is best-effort on every channel; the stored document is
// the source of truth.
type NotificationService interface {
	// Notify persists a notification for the user and pushes it to their
	// websocket room and registered device.
	Notify(ctx context.Context, userID, notifType, title, body string, data map[string]any) (*models.Notification, error)
	// GetForUser returns the user's notifications, newest first, with the
	// unread count.
	GetForUser(ctx context.Context, userID string, limit int64) ([]models.Notification, int64, error)
	// MarkRead marks one of the user's notifications as read.
	MarkRead(ctx context.Context, id, userID string) error
	// MarkAllRead marks all of the user's notifications as read.
	MarkAllRead(ctx context.Context, userID string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo  notificationRepo.NotificationRepository
	Users userRepo.UserRepository
	Hub   *realtime.Hub
}
