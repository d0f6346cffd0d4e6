package realtime

import "testing"

func TestJoinLeaveRoomLifecycle(t *testing.T) {
	hub := NewHub()
	a := NewClient("user-1", nil, hub)
	b := NewClient("user-1", nil, hub)

	hub.Join(a)
	hub.Join(b)
	if !hub.Connected("user-1") {
		t.Fatal("user-1 should be connected after joining")
	}

	hub.Leave(a)
	if !hub.Connected("user-1") {
		t.Fatal("user-1 still holds a second connection")
	}
	hub.Leave(b)
	if hub.Connected("user-1") {
		t.Fatal("user-1 should be disconnected once both clients left")
	}

	// Leaving twice must not panic or disturb other rooms.
	hub.Leave(b)
}

func TestPushToUserTargetsRoomOnly(t *testing.T) {
	hub := NewHub()
	target := NewClient("user-1", nil, hub)
	other := NewClient("user-2", nil, hub)
	hub.Join(target)
	hub.Join(other)

	event := Event{Type: EventReceiveNotification, Payload: "hello"}
	if delivered := hub.PushToUser("user-1", event); delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}

	select {
	case got := <-target.Send:
		if got.Type != EventReceiveNotification {
			t.Errorf("unexpected event type %q", got.Type)
		}
	default:
		t.Fatal("target client received nothing")
	}

	select {
	case got := <-other.Send:
		t.Fatalf("event leaked into another user's room: %+v", got)
	default:
	}
}

func TestPushToUserWithoutConnections(t *testing.T) {
	hub := NewHub()
	if delivered := hub.PushToUser("nobody", Event{Type: EventReceiveNotification}); delivered != 0 {
		t.Fatalf("expected 0 deliveries, got %d", delivered)
	}
}

func TestPushToUserNeverBlocksOnFullBuffer(t *testing.T) {
	hub := NewHub()
	client := NewClient("user-1", nil, hub)
	hub.Join(client)

	for i := 0; i < cap(client.Send); i++ {
		client.Send <- Event{Type: EventReceiveNotification}
	}

	// The buffer is full; the send must be dropped, not block.
	if delivered := hub.PushToUser("user-1", Event{Type: EventReceiveNotification}); delivered != 0 {
		t.Fatalf("expected the event to be dropped, got %d deliveries", delivered)
	}
}
