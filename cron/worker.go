package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"holistic/config"
	"holistic/models"
	"holistic/services/notification"
	"holistic/services/session"

	"github.com/hibiken/asynq"
)

// Task types handled by the lifecycle worker.
const (
	TypeSessionTransition = "session:transition"
	TypeSessionReminder   = "session:reminder"
)

// TransitionPayload drives a scheduled status transition.
type TransitionPayload struct {
	SessionID string `json:"sessionId"`
	To        string `json:"to"` // in_progress or completed
}

// ReminderPayload drives a starting-soon notification.
type ReminderPayload struct {
	SessionID string    `json:"sessionId"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// InitLifecycleWorker runs the async worker in background.
func InitLifecycleWorker(sessionSvc session.SessionService, notifSvc notification.NotificationService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSessionTransition, handleTransitionTask(sessionSvc))
	mux.HandleFunc(TypeSessionReminder, handleReminderTask(sessionSvc, notifSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[LifecycleWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[LifecycleWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[LifecycleWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleTransitionTask(sessionSvc session.SessionService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p TransitionPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[LifecycleWorker] invalid transition payload: %v", err)
			return err
		}

		switch p.To {
		case models.SessionInProgress:
			return sessionSvc.StartSession(ctx, p.SessionID)
		case models.SessionCompleted:
			return sessionSvc.CompleteSession(ctx, p.SessionID)
		default:
			log.Printf("[LifecycleWorker] unknown target status: %s", p.To)
			return nil
		}
	}
}

func handleReminderTask(sessionSvc session.SessionService, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[LifecycleWorker] invalid reminder payload: %v", err)
			return err
		}

		// Re-read the session: a reminder enqueued before a cancellation or a
		// reschedule must not fire stale.
		sess, err := sessionSvc.GetSession(ctx, p.SessionID)
		if err != nil {
			return err
		}
		if sess.Status != models.SessionScheduled || !sess.StartTime.Equal(p.StartTime) {
			return nil
		}

		body := fmt.Sprintf("La séance « %s » commence bientôt.", sess.Title)
		data := map[string]any{"sessionId": sess.ID}
		for _, participant := range sess.Participants {
			if _, err := notifSvc.Notify(ctx, participant.UserID, models.NotifSessionReminder,
				"Votre séance commence bientôt", body, data); err != nil {
				log.Printf("[LifecycleWorker] failed to send reminder: %v", err)
			}
		}
		_, err = notifSvc.Notify(ctx, sess.ProfessionalID, models.NotifSessionReminder,
			"Votre séance commence bientôt", body, data)
		return err
	}
}
