package session

import (
	"context"
	"errors"

	sessionRepo "holistic/database/repository/session"
	userRepo "holistic/database/repository/user"
	"holistic/models"
	"holistic/services/notification"
)

// Service errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound     = errors.New("session not found")
	ErrForbidden    = errors.New("not allowed to modify this session")
	ErrInvalidInput = errors.New("invalid session input")
	ErrJoinRefused  = errors.New("session is full, closed, or already joined")
)

// TaskScheduler enqueues deferred work for a session: status transitions at
// its start and end, and the starting-soon reminder. Implemented by the cron
// package; split out as an interface so the service stays testable and free
// of an import cycle with the worker.
type TaskScheduler interface {
	ScheduleLifecycle(s *models.Session) error
	ScheduleReminder(s *models.Session) error
}

// CreateSessionInput carries the professional-supplied fields of a new session.
type CreateSessionInput struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	StartTime       string `json:"startTime" binding:"required"` // RFC 3339
	EndTime         string `json:"endTime" binding:"required"`   // RFC 3339
	MaxParticipants int    `json:"maxParticipants"`
}

// UpdateSessionInput carries the fields a professional may change while a
// session is still scheduled. Nil pointers leave the field untouched.
type UpdateSessionInput struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
	MaxParticipants *int    `json:"maxParticipants"`
}

// SessionService defines the session booking operations.
type SessionService interface {
	// CreateSession creates a session owned by the given professional.
	CreateSession(ctx context.Context, professionalID string, input CreateSessionInput) (*models.Session, error)
	// GetSession fetches a session by ID.
	GetSession(ctx context.Context, id string) (*models.Session, error)
	// ListSessions fetches the sessions visible to the user: owned ones for a
	// professional, joined ones for a client.
	ListSessions(ctx context.Context, userID, role, status string) ([]models.Session, error)
	// UpdateSession applies the professional's changes to a scheduled session.
	UpdateSession(ctx context.Context, professionalID, id string, input UpdateSessionInput) (*models.Session, error)
	// CancelSession cancels a session and notifies its participants. Terminal.
	CancelSession(ctx context.Context, professionalID, id string) error
	// JoinSession adds the calling client to the participant list.
	JoinSession(ctx context.Context, userID, id string) (*models.Session, error)
	// LeaveSession removes the calling client's own participation.
	LeaveSession(ctx context.Context, userID, id string) error
	// StartSession transitions scheduled → in_progress. No-op when the session
	// was cancelled in the meantime.
	StartSession(ctx context.Context, id string) error
	// CompleteSession transitions in_progress → completed. No-op when the
	// session was cancelled in the meantime.
	CompleteSession(ctx context.Context, id string) error
}

// DefaultSessionService is the production implementation.
type DefaultSessionService struct {
	Repo      sessionRepo.SessionRepository
	Users     userRepo.UserRepository
	Notifier  notification.NotificationService
	Scheduler TaskScheduler
}
