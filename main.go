// File: holistic/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holistic/config"
	"holistic/cron"
	"holistic/database"
	accesslogRepo "holistic/database/repository/accesslog"
	notificationRepo "holistic/database/repository/notification"
	sessionRepoPkg "holistic/database/repository/session"
	userRepoPkg "holistic/database/repository/user"
	"holistic/handlers"
	"holistic/middleware"
	"holistic/realtime"
	"holistic/routes"
	"holistic/services/notification"
	"holistic/services/session"
	"holistic/services/videoaccess"
	"holistic/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()
	logRepo := accesslogRepo.NewMongoAccessLogRepo()
	notifRepo := notificationRepo.NewMongoNotificationRepo()

	// push hub.
	hub := realtime.NewHub()

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:  notifRepo,
		Users: userRepo,
		Hub:   hub,
	}

	scheduler := cron.NewAsynqScheduler()
	sessionService := &session.DefaultSessionService{
		Repo:      sessionRepo,
		Users:     userRepo,
		Notifier:  notificationService,
		Scheduler: scheduler,
	}

	accessService := &videoaccess.DefaultAccessService{
		Sessions: sessionRepo,
		Users:    userRepo,
		Logs:     logRepo,
		Notifier: notificationService,
		Secret:   []byte(config.AppConfig.VideoJWTSecret),
		TokenTTL: time.Duration(config.AppConfig.VideoTokenTTLMin) * time.Minute,
	}

	sessionHandler := handlers.NewSessionHandler(sessionService)
	videoAccessHandler := handlers.NewVideoAccessHandler(accessService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	userHandler := handlers.NewUserHandler(userRepo)
	pushHandler := handlers.NewPushHandler(hub)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		// Session endpoints.
		CreateSessionHandler: sessionHandler.CreateSessionHandler,
		ListSessionsHandler:  sessionHandler.ListSessionsHandler,
		GetSessionHandler:    sessionHandler.GetSessionHandler,
		UpdateSessionHandler: sessionHandler.UpdateSessionHandler,
		CancelSessionHandler: sessionHandler.CancelSessionHandler,
		JoinSessionHandler:   sessionHandler.JoinSessionHandler,
		LeaveSessionHandler:  sessionHandler.LeaveSessionHandler,

		// Video access endpoints.
		VideoAccessHandler:      videoAccessHandler.VideoAccessHandler,
		VerifyVideoTokenHandler: videoAccessHandler.VerifyTokenHandler,
		VideoLeaveHandler:       videoAccessHandler.VideoLeaveHandler,
		AccessLogsHandler:       videoAccessHandler.AccessLogsHandler,

		// Notification endpoints.
		GetNotificationsHandler: notificationHandler.GetNotificationsHandler,
		MarkReadHandler:         notificationHandler.MarkReadHandler,
		MarkAllReadHandler:      notificationHandler.MarkAllReadHandler,

		// User endpoints.
		GetMeHandler:          userHandler.GetMeHandler,
		UpdateFCMTokenHandler: userHandler.UpdateFCMTokenHandler,

		// Push channel.
		NotificationSocketHandler: pushHandler.NotificationSocketHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background lifecycle worker and health monitor.
	cron.InitLifecycleWorker(sessionService, notificationService)
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	hub.CloseAll()
	if err := scheduler.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close task scheduler: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
