package handlers

import (
	"net/http"

	"holistic/realtime"
	"holistic/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now, restrict in production
	},
}

// PushHandler upgrades authenticated clients onto the notification push
// channel.
type PushHandler struct {
	Hub *realtime.Hub
}

// NewPushHandler creates a PushHandler around the given hub.
func NewPushHandler(hub *realtime.Hub) *PushHandler {
	return &PushHandler{Hub: hub}
}

// NotificationSocketHandler handles GET /ws/notifications. Must be protected
// by WebSocketAuthMiddleware.
func (h *PushHandler) NotificationSocketHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, _ := requestUser(c)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "missing authentication context"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.String("userID", userID), zap.Error(err))
		return
	}

	client := realtime.NewClient(userID, conn, h.Hub)
	h.Hub.Join(client)
	logger.Debug("push client joined", zap.String("userID", userID))

	go client.WritePump(logger)
	go client.ReadPump(logger)
}
