package handlers

import (
	userRepo "holistic/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates every route handler plus the repositories the
// route middleware needs. Assembled once in main and passed to the routes
// package.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	// Session endpoints.
	CreateSessionHandler gin.HandlerFunc
	ListSessionsHandler  gin.HandlerFunc
	GetSessionHandler    gin.HandlerFunc
	UpdateSessionHandler gin.HandlerFunc
	CancelSessionHandler gin.HandlerFunc
	JoinSessionHandler   gin.HandlerFunc
	LeaveSessionHandler  gin.HandlerFunc

	// Video access endpoints.
	VideoAccessHandler      gin.HandlerFunc
	VerifyVideoTokenHandler gin.HandlerFunc
	VideoLeaveHandler       gin.HandlerFunc
	AccessLogsHandler       gin.HandlerFunc

	// Notification endpoints.
	GetNotificationsHandler gin.HandlerFunc
	MarkReadHandler         gin.HandlerFunc
	MarkAllReadHandler      gin.HandlerFunc

	// User endpoints.
	GetMeHandler          gin.HandlerFunc
	UpdateFCMTokenHandler gin.HandlerFunc

	// Push channel.
	NotificationSocketHandler gin.HandlerFunc
}

// requestUser pulls the authenticated identity placed by the auth middleware.
func requestUser(c *gin.Context) (string, string) {
	return c.GetString("userID"), c.GetString("userRole")
}
