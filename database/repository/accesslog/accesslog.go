package accesslogRepo

import (
	"context"
	"fmt"
	"time"

	"holistic/database"
	"holistic/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AccessLogRepository defines methods for the video call audit trail.
// The trail is append-only: there is deliberately no update or delete.
type AccessLogRepository interface {
	// Append inserts a new audit record and returns its ID.
	Append(ctx context.Context, entry *models.VideoCallAccessLog) (string, error)
	// GetBySession fetches audit records for a session, newest first.
	GetBySession(ctx context.Context, sessionID string, limit, offset int64) ([]models.VideoCallAccessLog, error)
	// GetByUser fetches audit records for a user, newest first.
	GetByUser(ctx context.Context, userID string, limit, offset int64) ([]models.VideoCallAccessLog, error)
	// CountByType counts a session's audit records of the given access type.
	CountByType(ctx context.Context, sessionID, accessType string) (int64, error)
}

// MongoAccessLogRepo implements AccessLogRepository using MongoDB.
type MongoAccessLogRepo struct {
	coll *mongo.Collection
}

// NewMongoAccessLogRepo creates a new instance of AccessLogRepository using MongoDB.
func NewMongoAccessLogRepo() AccessLogRepository {
	coll := database.DB().Collection("video_call_access_logs")
	repo := &MongoAccessLogRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
