package cron

import (
	"encoding/json"
	"fmt"
	"time"

	"holistic/models"

	"github.com/hibiken/asynq"
)

// ReminderLead is how long before its start a session reminder fires.
const ReminderLead = 10 * time.Minute

// AsynqScheduler enqueues lifecycle tasks for sessions. It implements the
// session service's TaskScheduler interface.
type AsynqScheduler struct {
	client *asynq.Client
}

// NewAsynqScheduler creates a scheduler backed by the configured Redis queue.
func NewAsynqScheduler() *AsynqScheduler {
	return &AsynqScheduler{client: asynq.NewClient(redisOpts())}
}

// Close releases the underlying queue connection.
func (s *AsynqScheduler) Close() error {
	return s.client.Close()
}

// ScheduleLifecycle enqueues the start and end transitions for a session.
// The handlers re-check current status, so stale tasks from a reschedule or
// cancellation fall through harmlessly.
func (s *AsynqScheduler) ScheduleLifecycle(sess *models.Session) error {
	if err := s.enqueueTransition(sess.ID, models.SessionInProgress, sess.StartTime); err != nil {
		return err
	}
	return s.enqueueTransition(sess.ID, models.SessionCompleted, sess.EndTime)
}

// ScheduleReminder enqueues the starting-soon notification. Sessions that
// start within the lead window get no reminder.
func (s *AsynqScheduler) ScheduleReminder(sess *models.Session) error {
	fireAt := sess.StartTime.Add(-ReminderLead)
	if fireAt.Before(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{
		SessionID: sess.ID,
		Title:     sess.Title,
		StartTime: sess.StartTime,
	})
	if err != nil {
		return fmt.Errorf("ScheduleReminder: failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeSessionReminder, payload)
	_, err = s.client.Enqueue(task, asynq.ProcessAt(fireAt))
	return err
}

func (s *AsynqScheduler) enqueueTransition(sessionID, to string, at time.Time) error {
	payload, err := json.Marshal(TransitionPayload{SessionID: sessionID, To: to})
	if err != nil {
		return fmt.Errorf("enqueueTransition: failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeSessionTransition, payload)
	_, err = s.client.Enqueue(task, asynq.ProcessAt(at))
	return err
}
