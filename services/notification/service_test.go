package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	notificationRepo "holistic/database/repository/notification"
	"holistic/models"
	"holistic/realtime"

	"github.com/google/uuid"
)

type fakeNotificationStore struct {
	items map[string]*models.Notification
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()
	copied := *n
	f.items[n.ID] = &copied
	return n.ID, nil
}

func (f *fakeNotificationStore) GetByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range f.items {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	n, ok := f.items[id]
	if !ok || n.UserID != userID {
		return notificationRepo.ErrNotFound
	}
	n.Read = true
	return nil
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range f.items {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) MarkSent(ctx context.Context, id string) error {
	n, ok := f.items[id]
	if !ok {
		return notificationRepo.ErrNotFound
	}
	n.Sent = true
	return nil
}

func newTestService() (*DefaultNotificationService, *fakeNotificationStore, *realtime.Hub) {
	store := &fakeNotificationStore{items: map[string]*models.Notification{}}
	hub := realtime.NewHub()
	return &DefaultNotificationService{Repo: store, Hub: hub}, store, hub
}

func TestNotifyPersistsAndPushes(t *testing.T) {
	svc, store, hub := newTestService()
	client := realtime.NewClient("user-1", nil, hub)
	hub.Join(client)

	n, err := svc.Notify(context.Background(), "user-1", models.NotifSessionCreated,
		"Nouvelle séance", "Une séance a été créée.", map[string]any{"sessionId": "sess-1"})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	stored, ok := store.items[n.ID]
	if !ok {
		t.Fatal("notification was not persisted")
	}
	if !stored.Sent {
		t.Error("websocket delivery should flag the notification as sent")
	}

	select {
	case event := <-client.Send:
		if event.Type != realtime.EventReceiveNotification {
			t.Errorf("unexpected event type %q", event.Type)
		}
		pushed, ok := event.Payload.(*models.Notification)
		if !ok || pushed.ID != n.ID {
			t.Errorf("pushed payload does not match the stored notification: %+v", event.Payload)
		}
	default:
		t.Fatal("connected client received no push")
	}
}

func TestNotifyWithoutConnectionStaysUnsent(t *testing.T) {
	svc, store, _ := newTestService()

	n, err := svc.Notify(context.Background(), "user-1", models.NotifSessionReminder,
		"Rappel", "Votre séance commence bientôt.", nil)
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if store.items[n.ID].Sent {
		t.Error("notification without a delivery channel must stay unsent")
	}
}

func TestGetForUserCountsUnread(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, _ := svc.Notify(ctx, "user-1", models.NotifSessionCreated, "a", "b", nil)
	svc.Notify(ctx, "user-1", models.NotifSessionUpdated, "c", "d", nil)
	svc.Notify(ctx, "user-2", models.NotifSessionCreated, "e", "f", nil)

	items, unread, err := svc.GetForUser(ctx, "user-1", 50)
	if err != nil {
		t.Fatalf("GetForUser failed: %v", err)
	}
	if len(items) != 2 || unread != 2 {
		t.Fatalf("expected 2 notifications / 2 unread, got %d / %d", len(items), unread)
	}

	if err := svc.MarkRead(ctx, first.ID, "user-1"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if _, unread, _ = svc.GetForUser(ctx, "user-1", 50); unread != 1 {
		t.Fatalf("expected 1 unread after MarkRead, got %d", unread)
	}

	if err := svc.MarkAllRead(ctx, "user-1"); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if _, unread, _ = svc.GetForUser(ctx, "user-1", 50); unread != 0 {
		t.Fatalf("expected 0 unread after MarkAllRead, got %d", unread)
	}
}

func TestMarkReadOwnership(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	n, _ := svc.Notify(ctx, "user-1", models.NotifSessionCreated, "a", "b", nil)

	if err := svc.MarkRead(ctx, n.ID, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("marking someone else's notification should return ErrNotFound, got %v", err)
	}
	if err := svc.MarkRead(ctx, "missing", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown ID, got %v", err)
	}
}
