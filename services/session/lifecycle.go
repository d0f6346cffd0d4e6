package session

import (
	"context"

	"holistic/models"
	"holistic/utils"

	"go.uber.org/zap"
)

// StartSession transitions scheduled → in_progress. The conditional update
// makes this a no-op for sessions cancelled after the task was enqueued.
func (s *DefaultSessionService) StartSession(ctx context.Context, id string) error {
	changed, err := s.Repo.UpdateStatus(ctx, id,
		[]string{models.SessionScheduled}, models.SessionInProgress)
	if err != nil {
		return err
	}
	if !changed {
		utils.GetLogger().Debug("start transition skipped", zap.String("sessionID", id))
	}
	return nil
}

// CompleteSession transitions in_progress → completed. Sessions that never
// started (cancelled, or the start task was lost) are left alone.
func (s *DefaultSessionService) CompleteSession(ctx context.Context, id string) error {
	changed, err := s.Repo.UpdateStatus(ctx, id,
		[]string{models.SessionInProgress}, models.SessionCompleted)
	if err != nil {
		return err
	}
	if !changed {
		utils.GetLogger().Debug("complete transition skipped", zap.String("sessionID", id))
	}
	return nil
}
