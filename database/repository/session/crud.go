package sessionRepo

import (
	"context"
	"errors"
	"time"

	"holistic/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no session matches the given ID.
var ErrNotFound = errors.New("session not found")

// Create inserts a new session record and returns its ID.
func (r *MongoSessionRepo) Create(ctx context.Context, session *models.Session) (string, error) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Status == "" {
		session.Status = models.SessionScheduled
	}
	if session.Participants == nil {
		session.Participants = []models.Participant{}
	}

	_, err := r.coll.InsertOne(ctx, session)
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

// GetByID retrieves a session by its unique ID.
func (r *MongoSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Update replaces the mutable fields of an existing session.
func (r *MongoSessionRepo) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":           session.Title,
		"description":     session.Description,
		"category":        session.Category,
		"startTime":       session.StartTime,
		"endTime":         session.EndTime,
		"duration":        session.Duration,
		"maxParticipants": session.MaxParticipants,
		"updatedAt":       session.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": session.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus transitions a session's status only when its current status is
// one of the given values. Returns false when no transition happened, which
// callers treat as "another writer got there first" rather than an error.
func (r *MongoSessionRepo) UpdateStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	filter := bson.M{"id": id}
	if len(from) > 0 {
		filter["status"] = bson.M{"$in": from}
	}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AddParticipant appends a participant unless already listed or the session
// is full. The capacity check rides in the filter so concurrent joins cannot
// oversubscribe a session.
func (r *MongoSessionRepo) AddParticipant(ctx context.Context, id string, p models.Participant) error {
	filter := bson.M{
		"id":                  id,
		"participants.userId": bson.M{"$ne": p.UserID},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": "$participants"},
			"$maxParticipants",
		}},
	}
	update := bson.M{
		"$push": bson.M{"participants": p},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("session full, missing, or user already joined")
	}
	return nil
}

// RemoveParticipant removes the given user's participation.
func (r *MongoSessionRepo) RemoveParticipant(ctx context.Context, id, userID string) error {
	update := bson.M{
		"$pull": bson.M{"participants": bson.M{"userId": userID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
