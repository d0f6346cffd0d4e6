package notification

import (
	"context"
	"errors"
	"fmt"

	notificationRepo "holistic/database/repository/notification"
	"holistic/models"
	"holistic/realtime"
	"holistic/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the notification does not exist or does not
// belong to the caller.
var ErrNotFound = errors.New("notification not found")

// Notify persists a notification for the user and pushes it to their
// websocket room and registered device. Push failures never fail the call.
func (s *DefaultNotificationService) Notify(ctx context.Context, userID, notifType, title, body string, data map[string]any) (*models.Notification, error) {
	n := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	if _, err := s.Repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("Notify: failed to persist notification for %s: %w", userID, err)
	}

	delivered := 0
	if s.Hub != nil {
		delivered = s.Hub.PushToUser(userID, realtime.Event{
			Type:    realtime.EventReceiveNotification,
			Payload: n,
		})
	}
	if s.sendDevicePush(ctx, n) {
		delivered++
	}

	if delivered > 0 {
		n.Sent = true
		if err := s.Repo.MarkSent(ctx, n.ID); err != nil {
			utils.GetLogger().Warn("failed to flag notification as sent",
				zap.String("id", n.ID), zap.Error(err))
		}
	}
	return n, nil
}

// sendDevicePush delivers the notification over FCM when the user has a
// registered device token. Best-effort only.
func (s *DefaultNotificationService) sendDevicePush(ctx context.Context, n *models.Notification) bool {
	if utils.FCMClient == nil || s.Users == nil {
		return false
	}
	logger := utils.GetLogger()

	usr, err := s.Users.GetByID(ctx, n.UserID)
	if err != nil || usr.FCMToken == "" {
		return false
	}

	data := map[string]string{
		"type":           n.Type,
		"notificationId": n.ID,
	}
	if sessionID, ok := n.Data["sessionId"].(string); ok {
		data["sessionId"] = sessionID
	}

	msg := &messaging.Message{
		Token: usr.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		logger.Warn("FCM push failed",
			zap.String("userID", n.UserID), zap.Error(err))
		return false
	}
	return true
}

// GetForUser returns the user's notifications, newest first, with the unread count.
func (s *DefaultNotificationService) GetForUser(ctx context.Context, userID string, limit int64) ([]models.Notification, int64, error) {
	notifications, err := s.Repo.GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("GetForUser: failed to fetch notifications: %w", err)
	}
	unread, err := s.Repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("GetForUser: failed to count unread: %w", err)
	}
	return notifications, unread, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *DefaultNotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.Repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, notificationRepo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead marks all of the user's notifications as read.
func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.Repo.MarkAllRead(ctx, userID)
}
