package videoaccess

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionRepo "holistic/database/repository/session"
	userRepo "holistic/database/repository/user"
	"holistic/models"
	"holistic/utils"

	"go.uber.org/zap"
)

// User-facing verification messages, rendered verbatim by the client.
const (
	msgAccessGranted  = "Accès vérifié"
	msgAccessDenied   = "Accès sécurisé refusé"
	msgVerifyFailed   = "Vérification de sécurité échouée"
	msgSessionClosed  = "La séance n'est plus active"
	msgOutsideWindow  = "La séance n'est pas dans sa fenêtre d'accès"
	msgSessionUnknown = "Séance introuvable"
)

// IssueToken validates the caller against the session and mints a
// short-lived access token. Both refusals and grants are audited.
func (s *DefaultAccessService) IssueToken(ctx context.Context, userID, sessionID string, meta RequestMeta) (*AccessGrant, error) {
	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("IssueToken: failed to load session: %w", err)
	}

	usr, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("IssueToken: failed to load user: %w", err)
	}

	role := usr.Role
	if sess.ProfessionalID == userID {
		role = models.RoleProfessional
	}

	flags := models.SecurityFlags{
		SessionActive:    sess.IsActive(),
		UserAuthorized:   sess.ProfessionalID == userID || sess.IsParticipant(userID),
		TimeWithinWindow: withinWindow(sess, time.Now()),
	}

	if !flags.UserAuthorized || !flags.SessionActive || !flags.TimeWithinWindow {
		s.audit(ctx, &models.VideoCallAccessLog{
			SessionID:  sessionID,
			UserID:     userID,
			Role:       role,
			AccessType: models.AccessDenied,
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
			Flags:      flags,
			Reason:     denialReason(flags),
		})
		return nil, ErrAccessDenied
	}

	token, expires, err := MintToken(sess, userID, role, s.TokenTTL, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("IssueToken: failed to sign token: %w", err)
	}
	flags.TokenValid = true

	s.audit(ctx, &models.VideoCallAccessLog{
		SessionID:   sessionID,
		UserID:      userID,
		Role:        role,
		AccessType:  models.AccessJoin,
		IP:          meta.IP,
		UserAgent:   meta.UserAgent,
		TokenSuffix: utils.TokenSuffix(token, utils.AuditTokenSuffixLen),
		Flags:       flags,
	})

	return &AccessGrant{
		Session: sess.Summary(),
		User:    usr.Summary(),
		Token:   token,
		Expires: expires,
	}, nil
}

// VerifyToken recomputes all four security flags against current session
// state. A token that verified a minute ago fails here the moment its
// session is cancelled; this is what makes possession insufficient.
func (s *DefaultAccessService) VerifyToken(ctx context.Context, token string, meta RequestMeta) (*VerifyResult, error) {
	entry := &models.VideoCallAccessLog{
		AccessType:  models.AccessSecurityViolation,
		IP:          meta.IP,
		UserAgent:   meta.UserAgent,
		TokenSuffix: utils.TokenSuffix(token, utils.AuditTokenSuffixLen),
	}

	claims, err := ParseToken(token, s.Secret)
	if err != nil {
		// Attribute the violation when the payload is readable, even though
		// the signature or expiry did not hold.
		if unverified := UnverifiedClaims(token); unverified != nil {
			entry.SessionID = unverified.SessionID
			entry.UserID = unverified.UserID
			entry.Role = unverified.Role
		}
		s.audit(ctx, entry)
		return &VerifyResult{Success: false, Message: msgVerifyFailed, Flags: entry.Flags}, nil
	}

	entry.SessionID = claims.SessionID
	entry.UserID = claims.UserID
	entry.Role = claims.Role
	entry.Flags.TokenValid = true

	sess, err := s.Sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			s.audit(ctx, entry)
			return &VerifyResult{Success: false, Message: msgSessionUnknown, Flags: entry.Flags}, nil
		}
		return nil, fmt.Errorf("VerifyToken: failed to load session: %w", err)
	}

	entry.Flags.SessionActive = sess.IsActive()
	entry.Flags.UserAuthorized = sess.ProfessionalID == claims.UserID || sess.IsParticipant(claims.UserID)
	entry.Flags.TimeWithinWindow = withinWindow(sess, time.Now())

	if !entry.Flags.AllGranted() {
		entry.Reason = denialReason(entry.Flags)
		s.audit(ctx, entry)
		s.reportViolation(ctx, sess, claims)
		return &VerifyResult{Success: false, Message: verifyMessage(entry.Flags), Flags: entry.Flags}, nil
	}

	entry.AccessType = models.AccessVerify
	s.audit(ctx, entry)
	return &VerifyResult{Success: true, Message: msgAccessGranted, Flags: entry.Flags}, nil
}

// ReportLeave records that the user ended their call.
func (s *DefaultAccessService) ReportLeave(ctx context.Context, userID, sessionID string, meta RequestMeta) error {
	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("ReportLeave: failed to load session: %w", err)
	}

	role := ""
	if sess.ProfessionalID == userID {
		role = models.RoleProfessional
	} else {
		for _, p := range sess.Participants {
			if p.UserID == userID {
				role = p.Role
				break
			}
		}
	}

	s.audit(ctx, &models.VideoCallAccessLog{
		SessionID:  sessionID,
		UserID:     userID,
		Role:       role,
		AccessType: models.AccessLeave,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Flags: models.SecurityFlags{
			TokenValid:       true,
			SessionActive:    sess.IsActive(),
			UserAuthorized:   true,
			TimeWithinWindow: withinWindow(sess, time.Now()),
		},
	})
	return nil
}

// GetSessionLogs returns a session's audit trail to its owning professional
// or an admin, newest first.
func (s *DefaultAccessService) GetSessionLogs(ctx context.Context, requesterID, requesterRole, sessionID string, limit, offset int64) ([]models.VideoCallAccessLog, error) {
	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("GetSessionLogs: failed to load session: %w", err)
	}
	if sess.ProfessionalID != requesterID && requesterRole != models.RoleAdmin {
		return nil, ErrAccessDenied
	}
	return s.Logs.GetBySession(ctx, sessionID, limit, offset)
}

// audit appends an access log entry. The trail is best-effort: a failed
// insert is logged but never blocks the access decision it describes.
func (s *DefaultAccessService) audit(ctx context.Context, entry *models.VideoCallAccessLog) {
	if _, err := s.Logs.Append(ctx, entry); err != nil {
		utils.GetLogger().Error("failed to append access log",
			zap.String("sessionID", entry.SessionID),
			zap.String("accessType", entry.AccessType),
			zap.Error(err))
	}
}

// reportViolation notifies the owning professional that a stale or foreign
// token was presented for their session.
func (s *DefaultAccessService) reportViolation(ctx context.Context, sess *models.Session, claims *VideoClaims) {
	if s.Notifier == nil {
		return
	}
	_, err := s.Notifier.Notify(ctx, sess.ProfessionalID, models.NotifSecurityViolation,
		"Alerte de sécurité",
		fmt.Sprintf("Une vérification d'accès a échoué pour la séance « %s ».", sess.Title),
		map[string]any{"sessionId": sess.ID, "userId": claims.UserID})
	if err != nil {
		utils.GetLogger().Warn("failed to notify security violation",
			zap.String("sessionID", sess.ID), zap.Error(err))
	}
}

// withinWindow reports whether t falls inside the session's access window,
// which opens shortly before the scheduled start and closes shortly after
// the scheduled end.
func withinWindow(sess *models.Session, t time.Time) bool {
	opens := sess.StartTime.Add(-utils.AccessWindowGrace)
	closes := sess.EndTime.Add(utils.AccessWindowGrace)
	return !t.Before(opens) && !t.After(closes)
}

func denialReason(f models.SecurityFlags) string {
	switch {
	case !f.UserAuthorized:
		return "user not authorized for session"
	case !f.SessionActive:
		return "session not active"
	case !f.TimeWithinWindow:
		return "outside access window"
	case !f.TokenValid:
		return "invalid token"
	}
	return ""
}

func verifyMessage(f models.SecurityFlags) string {
	switch {
	case !f.SessionActive:
		return msgSessionClosed
	case !f.TimeWithinWindow:
		return msgOutsideWindow
	case !f.UserAuthorized:
		return msgAccessDenied
	}
	return msgVerifyFailed
}
