package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// EventReceiveNotification is emitted to a user's room whenever a
// notification is created for them.
const EventReceiveNotification = "receive-notification"

// Event is the standard message format pushed to connected clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub manages all active push connections, grouped into per-user rooms.
// A user may hold several connections at once (multiple tabs or devices).
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[uuid.UUID]*Client // key: user ID
}

// NewHub creates a new push hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[uuid.UUID]*Client),
	}
}

// Join adds a client to its user's room.
func (h *Hub) Join(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.rooms[client.UserID]
	if !exists {
		room = make(map[uuid.UUID]*Client)
		h.rooms[client.UserID] = room
	}
	room[client.ID] = client
}

// Leave removes a client from its user's room, dropping the room once empty.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.rooms[client.UserID]
	if !exists {
		return
	}
	delete(room, client.ID)
	if len(room) == 0 {
		delete(h.rooms, client.UserID)
	}
}

// PushToUser delivers an event to every connection in the user's room and
// returns how many connections accepted it. Sends never block: a client
// whose buffer is full simply misses the event.
func (h *Hub) PushToUser(userID string, event Event) int {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[userID]))
	for _, c := range h.rooms[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, client := range clients {
		select {
		case client.Send <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Connected reports whether the user currently has at least one connection.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID]) > 0
}

// CloseAll closes every connection, used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	rooms := h.rooms
	h.rooms = make(map[string]map[uuid.UUID]*Client)
	h.mu.Unlock()

	for _, room := range rooms {
		for _, client := range room {
			client.Close()
		}
	}
}
