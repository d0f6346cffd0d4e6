package handlers

import (
	"errors"
	"net/http"

	userRepo "holistic/database/repository/user"
	"holistic/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes the few user endpoints this service owns. Account
// management itself lives in the account service.
type UserHandler struct {
	Repo userRepo.UserRepository
}

// NewUserHandler creates a UserHandler around the given repository.
func NewUserHandler(repo userRepo.UserRepository) *UserHandler {
	return &UserHandler{Repo: repo}
}

// GetMeHandler handles GET /api/users/me.
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	usr, err := h.Repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		utils.GetLogger().Error("failed to fetch user", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateFCMTokenHandler handles POST /api/users/fcm-token. It registers the
// device token targeted by best-effort push delivery.
func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	userID, _ := requestUser(c)

	var input struct {
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fcmToken required"})
		return
	}

	if err := h.Repo.UpdateFCMToken(c.Request.Context(), userID, input.FCMToken); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		utils.GetLogger().Error("failed to update FCM token", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
