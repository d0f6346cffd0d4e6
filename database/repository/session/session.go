package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"holistic/database"
	"holistic/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SessionRepository defines methods for session data access.
type SessionRepository interface {
	// Create inserts a new session record and returns its ID.
	Create(ctx context.Context, session *models.Session) (string, error)
	// GetByID retrieves a session by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Session, error)
	// Update replaces the mutable fields of an existing session.
	Update(ctx context.Context, session *models.Session) error
	// UpdateStatus transitions a session's status, conditioned on its current one.
	UpdateStatus(ctx context.Context, id string, from []string, to string) (bool, error)
	// AddParticipant appends a participant unless already listed or the session is full.
	AddParticipant(ctx context.Context, id string, p models.Participant) error
	// RemoveParticipant removes the given user's participation.
	RemoveParticipant(ctx context.Context, id, userID string) error
	// GetByProfessional fetches sessions owned by a professional, optionally filtered by status.
	GetByProfessional(ctx context.Context, professionalID, status string) ([]models.Session, error)
	// GetByParticipant fetches sessions where the user is listed, optionally filtered by status.
	GetByParticipant(ctx context.Context, userID, status string) ([]models.Session, error)
}

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo creates a new instance of SessionRepository using MongoDB.
func NewMongoSessionRepo() SessionRepository {
	coll := database.DB().Collection("sessions")
	repo := &MongoSessionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
