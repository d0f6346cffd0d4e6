package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"holistic/services/notification"
	"holistic/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes the notification endpoints.
type NotificationHandler struct {
	Service notification.NotificationService
}

// NewNotificationHandler creates a NotificationHandler around the given service.
func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// GetNotificationsHandler handles GET /api/notifications.
func (h *NotificationHandler) GetNotificationsHandler(c *gin.Context) {
	userID, _ := requestUser(c)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	notifications, unread, err := h.Service.GetForUser(c.Request.Context(), userID, limit)
	if err != nil {
		utils.GetLogger().Error("failed to fetch notifications", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

// MarkReadHandler handles POST /api/notifications/:id/mark-read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	if err := h.Service.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		utils.GetLogger().Error("failed to mark notification read", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllReadHandler handles POST /api/notifications/mark-all-read.
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	if err := h.Service.MarkAllRead(c.Request.Context(), userID); err != nil {
		utils.GetLogger().Error("failed to mark all read", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
