package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "holistic/database/repository/user"
	"holistic/models"
)

// JoinSession adds the calling client to the participant list. Refused when
// the session is full, no longer active, or the user already joined. Clients
// only ever mutate their own participation.
func (s *DefaultSessionService) JoinSession(ctx context.Context, userID, id string) (*models.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, fmt.Errorf("%w: session is %s", ErrJoinRefused, sess.Status)
	}
	if sess.ProfessionalID == userID {
		return nil, fmt.Errorf("%w: the owning professional is not a participant", ErrJoinRefused)
	}

	usr, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrJoinRefused)
		}
		return nil, err
	}

	participant := models.Participant{
		UserID:   usr.ID,
		Name:     usr.FullName,
		Role:     usr.Role,
		JoinedAt: time.Now(),
	}
	if err := s.Repo.AddParticipant(ctx, id, participant); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJoinRefused, err)
	}

	return s.GetSession(ctx, id)
}

// LeaveSession removes the calling client's own participation.
func (s *DefaultSessionService) LeaveSession(ctx context.Context, userID, id string) error {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if !sess.IsParticipant(userID) {
		return fmt.Errorf("%w: user is not a participant", ErrJoinRefused)
	}
	return s.Repo.RemoveParticipant(ctx, id, userID)
}
