package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"holistic/middleware"
	"holistic/services/videoaccess"
	"holistic/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoAccessHandler exposes the video access token endpoints. All access
// decisions live in the service; the handler only translates transport.
type VideoAccessHandler struct {
	Service videoaccess.AccessService
}

// NewVideoAccessHandler creates a VideoAccessHandler around the given service.
func NewVideoAccessHandler(svc videoaccess.AccessService) *VideoAccessHandler {
	return &VideoAccessHandler{Service: svc}
}

func requestMeta(c *gin.Context) videoaccess.RequestMeta {
	return videoaccess.RequestMeta{
		IP:        middleware.GetClientIP(c),
		UserAgent: c.Request.UserAgent(),
	}
}

// VideoAccessHandler handles GET /api/sessions/:id/video-access.
func (h *VideoAccessHandler) VideoAccessHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	grant, err := h.Service.IssueToken(c.Request.Context(), userID, c.Param("id"), requestMeta(c))
	if err != nil {
		h.writeAccessError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"session":          grant.Session,
		"user":             grant.User,
		"videoAccessToken": grant.Token,
		"expiresAt":        grant.Expires,
	})
}

// VerifyTokenHandler handles POST /api/sessions/video-verify-token. The
// token itself is the credential here: no bearer auth is required, matching
// the periodic in-call check the client runs.
func (h *VideoAccessHandler) VerifyTokenHandler(c *gin.Context) {
	var input struct {
		VideoAccessToken string `json:"videoAccessToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "videoAccessToken required"})
		return
	}

	result, err := h.Service.VerifyToken(c.Request.Context(), input.VideoAccessToken, requestMeta(c))
	if err != nil {
		utils.GetLogger().Error("token verification errored", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "verification unavailable"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// VideoLeaveHandler handles POST /api/sessions/:id/video-leave.
func (h *VideoAccessHandler) VideoLeaveHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	if err := h.Service.ReportLeave(c.Request.Context(), userID, c.Param("id"), requestMeta(c)); err != nil {
		h.writeAccessError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AccessLogsHandler handles GET /api/sessions/:id/access-logs.
func (h *VideoAccessHandler) AccessLogsHandler(c *gin.Context) {
	userID, role := requestUser(c)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	logs, err := h.Service.GetSessionLogs(c.Request.Context(), userID, role, c.Param("id"), limit, offset)
	if err != nil {
		h.writeAccessError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}

func (h *VideoAccessHandler) writeAccessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, videoaccess.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "session not found"})
	case errors.Is(err, videoaccess.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
	case errors.Is(err, videoaccess.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Accès sécurisé refusé"})
	default:
		utils.GetLogger().Error("video access operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}
