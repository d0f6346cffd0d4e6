package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"holistic/database"
	"holistic/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository defines methods for notification data access.
type NotificationRepository interface {
	// Create inserts a new notification and returns its ID.
	Create(ctx context.Context, n *models.Notification) (string, error)
	// GetByUser fetches a user's notifications, newest first.
	GetByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	// CountUnread counts a user's unread notifications.
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead marks one of the user's notifications as read. Idempotent.
	MarkRead(ctx context.Context, id, userID string) error
	// MarkAllRead marks all of the user's notifications as read.
	MarkAllRead(ctx context.Context, userID string) error
	// MarkSent flags a notification as delivered over a push channel.
	MarkSent(ctx context.Context, id string) error
}

// MongoNotificationRepo implements NotificationRepository using MongoDB.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo creates a new instance of NotificationRepository using MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	coll := database.DB().Collection("notifications")
	repo := &MongoNotificationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
