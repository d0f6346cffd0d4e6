package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client represents one push connection belonging to a user.
type Client struct {
	ID     uuid.UUID
	UserID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan Event
	Done   chan struct{}

	closeOnce sync.Once
}

// NewClient wraps an upgraded connection for the given user.
func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan Event, 32),
		Done:   make(chan struct{}),
	}
}

// Close tears the connection down exactly once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Done)
		c.Conn.Close()
	})
}

// ReadPump drains inbound frames until the peer disconnects. Clients are not
// expected to send anything meaningful; the read loop exists to process
// control frames and detect the close.
func (c *Client) ReadPump(logger *zap.Logger) {
	defer func() {
		c.Hub.Leave(c)
		c.Close()
	}()

	c.Conn.SetReadLimit(1024)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("push connection closed unexpectedly",
					zap.String("userID", c.UserID), zap.Error(err))
			}
			return
		}
	}
}

// WritePump serializes queued events onto the connection and keeps it alive
// with periodic pings.
func (c *Client) WritePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(event); err != nil {
				logger.Debug("push write failed",
					zap.String("userID", c.UserID), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Done:
			return
		}
	}
}
