package sessionRepo

import (
	"context"

	"holistic/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByProfessional fetches sessions owned by a professional, newest first,
// optionally filtered by status.
func (r *MongoSessionRepo) GetByProfessional(ctx context.Context, professionalID, status string) ([]models.Session, error) {
	filter := bson.M{"professionalId": professionalID}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter)
}

// GetByParticipant fetches sessions where the user is listed as a
// participant, newest first, optionally filtered by status.
func (r *MongoSessionRepo) GetByParticipant(ctx context.Context, userID, status string) ([]models.Session, error) {
	filter := bson.M{"participants.userId": userID}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter)
}

func (r *MongoSessionRepo) find(ctx context.Context, filter bson.M) ([]models.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
