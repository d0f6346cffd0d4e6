package videoaccess

import (
	"context"
	"errors"
	"time"

	accesslogRepo "holistic/database/repository/accesslog"
	sessionRepo "holistic/database/repository/session"
	userRepo "holistic/database/repository/user"
	"holistic/models"
	"holistic/services/notification"
)

// Service errors mapped to HTTP statuses by the handlers.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnauthorized    = errors.New("unknown or unauthenticated user")
	// ErrAccessDenied carries the user-facing refusal; the client renders
	// its message verbatim.
	ErrAccessDenied = errors.New("accès sécurisé refusé")
)

// RequestMeta carries the caller attributes recorded in the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AccessGrant is the payload returned by a successful token issuance.
type AccessGrant struct {
	Session models.SessionSummary `json:"session"`
	User    models.UserSummary    `json:"user"`
	Token   string                `json:"videoAccessToken"`
	Expires time.Time             `json:"expiresAt"`
}

// VerifyResult is the outcome of a token verification. Clients treat any
// non-success as fatal for the current call.
type VerifyResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Flags   models.SecurityFlags `json:"flags"`
}

// AccessService issues and verifies video access tokens and owns the
// append-only audit trail. Verification always consults live session state:
// possession of a token is never sufficient for continued access.
type AccessService interface {
	// IssueToken validates the caller against the session and mints a
	// short-lived access token. Every attempt is audited.
	IssueToken(ctx context.Context, userID, sessionID string, meta RequestMeta) (*AccessGrant, error)
	// VerifyToken recomputes all security flags against current session
	// state. The sole authority for continued call access.
	VerifyToken(ctx context.Context, token string, meta RequestMeta) (*VerifyResult, error)
	// ReportLeave records that the user ended their call.
	ReportLeave(ctx context.Context, userID, sessionID string, meta RequestMeta) error
	// GetSessionLogs returns a session's audit trail to its owning
	// professional or an admin.
	GetSessionLogs(ctx context.Context, requesterID, requesterRole, sessionID string, limit, offset int64) ([]models.VideoCallAccessLog, error)
}

// DefaultAccessService is the production implementation.
type DefaultAccessService struct {
	Sessions sessionRepo.SessionRepository
	Users    userRepo.UserRepository
	Logs     accesslogRepo.AccessLogRepository
	Notifier notification.NotificationService

	// Secret signs video access tokens; TokenTTL caps their lifetime.
	Secret   []byte
	TokenTTL time.Duration
}
