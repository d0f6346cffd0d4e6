package handlers

import (
	"errors"
	"net/http"

	"holistic/services/session"
	"holistic/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes the session booking endpoints.
type SessionHandler struct {
	Service session.SessionService
}

// NewSessionHandler creates a SessionHandler around the given service.
func NewSessionHandler(svc session.SessionService) *SessionHandler {
	return &SessionHandler{Service: svc}
}

// CreateSessionHandler handles POST /api/sessions.
func (h *SessionHandler) CreateSessionHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, _ := requestUser(c)

	var input session.CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Service.CreateSession(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, session.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("failed to create session", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "session": sess})
}

// ListSessionsHandler handles GET /api/sessions.
func (h *SessionHandler) ListSessionsHandler(c *gin.Context) {
	userID, role := requestUser(c)
	status := c.Query("status")

	sessions, err := h.Service.ListSessions(c.Request.Context(), userID, role, status)
	if err != nil {
		utils.GetLogger().Error("failed to list sessions", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessions": sessions})
}

// GetSessionHandler handles GET /api/sessions/:id.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	sess, err := h.Service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess})
}

// UpdateSessionHandler handles PUT /api/sessions/:id.
func (h *SessionHandler) UpdateSessionHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	var input session.UpdateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Service.UpdateSession(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess})
}

// CancelSessionHandler handles POST /api/sessions/:id/cancel.
func (h *SessionHandler) CancelSessionHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	if err := h.Service.CancelSession(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "session cancelled"})
}

// JoinSessionHandler handles POST /api/sessions/:id/join.
func (h *SessionHandler) JoinSessionHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	sess, err := h.Service.JoinSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess})
}

// LeaveSessionHandler handles POST /api/sessions/:id/leave.
func (h *SessionHandler) LeaveSessionHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	if err := h.Service.LeaveSession(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "left session"})
}

func (h *SessionHandler) writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, session.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, session.ErrInvalidInput), errors.Is(err, session.ErrJoinRefused):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utils.GetLogger().Error("session operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
