package notificationRepo

import (
	"context"
	"errors"
	"time"

	"holistic/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no notification matches the given ID and owner.
var ErrNotFound = errors.New("notification not found")

// Create inserts a new notification and returns its ID.
func (r *MongoNotificationRepo) Create(ctx context.Context, n *models.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return "", err
	}
	return n.ID, nil
}

// GetByUser fetches a user's notifications, newest first.
func (r *MongoNotificationRepo) GetByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts a user's unread notifications.
func (r *MongoNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
}

// MarkRead marks one of the user's notifications as read. Marking an already
// read notification succeeds without effect.
func (r *MongoNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "userId": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks all of the user's notifications as read.
func (r *MongoNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	_, err := r.coll.UpdateMany(ctx, bson.M{"userId": userID, "read": false}, update)
	return err
}

// MarkSent flags a notification as delivered over a push channel.
func (r *MongoNotificationRepo) MarkSent(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"sent": true, "updatedAt": time.Now()}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	return err
}
