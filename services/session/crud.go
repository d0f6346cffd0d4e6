package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionRepo "holistic/database/repository/session"
	"holistic/models"
	"holistic/utils"

	"go.uber.org/zap"
)

// CreateSession creates a session owned by the given professional.
func (s *DefaultSessionService) CreateSession(ctx context.Context, professionalID string, input CreateSessionInput) (*models.Session, error) {
	start, end, err := parseWindow(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	maxParticipants := input.MaxParticipants
	if maxParticipants <= 0 {
		maxParticipants = 1
	}

	sess := &models.Session{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		ProfessionalID:  professionalID,
		StartTime:       start,
		EndTime:         end,
		Duration:        int(end.Sub(start) / time.Minute),
		Status:          models.SessionScheduled,
		MaxParticipants: maxParticipants,
	}

	if _, err := s.Repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("CreateSession: failed to persist session: %w", err)
	}

	s.scheduleTasks(sess)
	return sess, nil
}

// GetSession fetches a session by ID.
func (s *DefaultSessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// ListSessions fetches the sessions visible to the user.
func (s *DefaultSessionService) ListSessions(ctx context.Context, userID, role, status string) ([]models.Session, error) {
	if role == models.RoleProfessional {
		return s.Repo.GetByProfessional(ctx, userID, status)
	}
	return s.Repo.GetByParticipant(ctx, userID, status)
}

// UpdateSession applies the professional's changes to a scheduled session.
func (s *DefaultSessionService) UpdateSession(ctx context.Context, professionalID, id string, input UpdateSessionInput) (*models.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.ProfessionalID != professionalID {
		return nil, ErrForbidden
	}
	if sess.Status != models.SessionScheduled {
		return nil, fmt.Errorf("%w: only scheduled sessions can be updated", ErrInvalidInput)
	}

	timesChanged := false
	if input.Title != nil {
		sess.Title = *input.Title
	}
	if input.Description != nil {
		sess.Description = *input.Description
	}
	if input.Category != nil {
		sess.Category = *input.Category
	}
	if input.StartTime != nil || input.EndTime != nil {
		startStr := sess.StartTime.Format(time.RFC3339)
		endStr := sess.EndTime.Format(time.RFC3339)
		if input.StartTime != nil {
			startStr = *input.StartTime
		}
		if input.EndTime != nil {
			endStr = *input.EndTime
		}
		start, end, err := parseWindow(startStr, endStr)
		if err != nil {
			return nil, err
		}
		sess.StartTime = start
		sess.EndTime = end
		sess.Duration = int(end.Sub(start) / time.Minute)
		timesChanged = true
	}
	if input.MaxParticipants != nil {
		if *input.MaxParticipants < len(sess.Participants) {
			return nil, fmt.Errorf("%w: maxParticipants below current participant count", ErrInvalidInput)
		}
		sess.MaxParticipants = *input.MaxParticipants
	}

	if err := s.Repo.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("UpdateSession: failed to persist changes: %w", err)
	}

	if timesChanged {
		s.scheduleTasks(sess)
	}
	s.notifyParticipants(ctx, sess, models.NotifSessionUpdated,
		"Séance mise à jour",
		fmt.Sprintf("La séance « %s » a été modifiée.", sess.Title))
	return sess, nil
}

// CancelSession cancels a session and notifies its participants. Terminal:
// a cancelled session never transitions again, and previously issued video
// access tokens stop verifying from this point on.
func (s *DefaultSessionService) CancelSession(ctx context.Context, professionalID, id string) error {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if sess.ProfessionalID != professionalID {
		return ErrForbidden
	}

	changed, err := s.Repo.UpdateStatus(ctx, id,
		[]string{models.SessionScheduled, models.SessionInProgress}, models.SessionCancelled)
	if err != nil {
		return fmt.Errorf("CancelSession: failed to persist status: %w", err)
	}
	if !changed {
		return fmt.Errorf("%w: session already completed or cancelled", ErrInvalidInput)
	}

	s.notifyParticipants(ctx, sess, models.NotifSessionCancelled,
		"Séance annulée",
		fmt.Sprintf("La séance « %s » a été annulée.", sess.Title))
	return nil
}

// scheduleTasks enqueues the lifecycle transitions and reminder for a
// session. Failures are logged, never surfaced: the booking itself stands.
func (s *DefaultSessionService) scheduleTasks(sess *models.Session) {
	if s.Scheduler == nil {
		return
	}
	logger := utils.GetLogger()
	if err := s.Scheduler.ScheduleLifecycle(sess); err != nil {
		logger.Warn("failed to schedule session lifecycle tasks",
			zap.String("sessionID", sess.ID), zap.Error(err))
	}
	if err := s.Scheduler.ScheduleReminder(sess); err != nil {
		logger.Warn("failed to schedule session reminder",
			zap.String("sessionID", sess.ID), zap.Error(err))
	}
}

// notifyParticipants fans a notification out to every listed participant.
func (s *DefaultSessionService) notifyParticipants(ctx context.Context, sess *models.Session, notifType, title, body string) {
	if s.Notifier == nil {
		return
	}
	logger := utils.GetLogger()
	data := map[string]any{"sessionId": sess.ID}
	for _, p := range sess.Participants {
		if _, err := s.Notifier.Notify(ctx, p.UserID, notifType, title, body, data); err != nil {
			logger.Warn("failed to notify participant",
				zap.String("sessionID", sess.ID),
				zap.String("userID", p.UserID),
				zap.Error(err))
		}
	}
}

func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad startTime: %v", ErrInvalidInput, err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad endTime: %v", ErrInvalidInput, err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}
	return start, end, nil
}
