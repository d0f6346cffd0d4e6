package accesslogRepo

import (
	"context"
	"time"

	"holistic/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Append inserts a new audit record and returns its ID.
func (r *MongoAccessLogRepo) Append(ctx context.Context, entry *models.VideoCallAccessLog) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

// GetBySession fetches audit records for a session, newest first.
func (r *MongoAccessLogRepo) GetBySession(ctx context.Context, sessionID string, limit, offset int64) ([]models.VideoCallAccessLog, error) {
	return r.find(ctx, bson.M{"sessionId": sessionID}, limit, offset)
}

// GetByUser fetches audit records for a user, newest first.
func (r *MongoAccessLogRepo) GetByUser(ctx context.Context, userID string, limit, offset int64) ([]models.VideoCallAccessLog, error) {
	return r.find(ctx, bson.M{"userId": userID}, limit, offset)
}

// CountByType counts a session's audit records of the given access type.
func (r *MongoAccessLogRepo) CountByType(ctx context.Context, sessionID, accessType string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"sessionId": sessionID, "accessType": accessType})
}

func (r *MongoAccessLogRepo) find(ctx context.Context, filter bson.M, limit, offset int64) ([]models.VideoCallAccessLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.VideoCallAccessLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
