package routes

import (
	"net/http"
	"time"

	"holistic/handlers"
	"holistic/middleware"
	"holistic/models"
	"holistic/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers the session booking and video access endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		// Token verification is deliberately outside bearer auth: the video
		// access token in the body is the credential being judged.
		api.POST("/video-verify-token", hb.VerifyVideoTokenHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("", hb.ListSessionsHandler)
		api.GET("/:id", hb.GetSessionHandler)
		api.GET("/:id/video-access", hb.VideoAccessHandler)
		api.POST("/:id/video-leave", hb.VideoLeaveHandler)
		api.POST("/:id/join", hb.JoinSessionHandler)
		api.POST("/:id/leave", hb.LeaveSessionHandler)

		// Endpoints reserved for professionals.
		pro := api.Group("")
		pro.Use(middleware.RequireRole(models.RoleProfessional, models.RoleAdmin))
		pro.POST("", hb.CreateSessionHandler)
		pro.PUT("/:id", hb.UpdateSessionHandler)
		pro.POST("/:id/cancel", hb.CancelSessionHandler)
		pro.GET("/:id/access-logs", hb.AccessLogsHandler)
	}
}

// RegisterNotificationRoutes registers notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("", hb.GetNotificationsHandler)
		api.POST("/mark-all-read", hb.MarkAllReadHandler)
		api.POST("/:id/mark-read", hb.MarkReadHandler)
	}
}

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/me", hb.GetMeHandler)
		api.POST("/fcm-token", hb.UpdateFCMTokenHandler)
	}
}

// RegisterPushRoutes registers the websocket push channel.
func RegisterPushRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws/notifications", middleware.WebSocketAuthMiddleware(), hb.NotificationSocketHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSessionRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterPushRoutes(r, hb)
	RegisterHealthRoute(r)
}
