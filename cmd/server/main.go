package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachpad/coaching-app/internal/api"
	"coachpad/coaching-app/internal/config"
	"coachpad/coaching-app/internal/logger"
	"coachpad/coaching-app/internal/monitoring"
	"coachpad/coaching-app/internal/notify"
	"coachpad/coaching-app/internal/repository/mongo"
	"coachpad/coaching-app/internal/service"
	"coachpad/coaching-app/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Coaching App API
// @version 1.0
// @description API for coaches and clients: programs, routines, training calendars, lessons, video review and messaging.
// @contact.name API Support
// @contact.email support@coachpad.app
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	// --- Logger ---
	zlog := logger.New(&cfg)
	defer zlog.Sync() //nolint:errcheck
	zlog.Info("starting coaching app server", zap.String("address", cfg.Server.Address))

	// --- Metrics ---
	monitoring.Init()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		zlog.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		zlog.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			zlog.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	zlog.Info("database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureAllIndexes(ctx, appDB)
		zlog.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize S3 storage", zap.Error(err))
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	assignmentRepo := mongo.NewMongoProgramAssignmentRepository(appDB)
	routineAssignRepo := mongo.NewMongoRoutineAssignmentRepository(appDB)
	replacementRepo := mongo.NewMongoReplacementRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	lessonRepo := mongo.NewMongoLessonRepository(appDB)
	messageRepo := mongo.NewMongoMessageRepository(appDB)
	submissionRepo := mongo.NewMongoVideoSubmissionRepository(appDB)
	notificationRepo := mongo.NewMongoNotificationRepository(appDB)

	// --- Initialize Notifier ---
	var emailSender notify.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		emailSender = notify.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromAddress)
	} else {
		zlog.Warn("no Resend API key configured; email notifications disabled")
		emailSender = notify.NewNoopSender()
	}
	notifier := notify.NewNotifier(notificationRepo, userRepo, emailSender, zlog)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(userRepo, programRepo, routineRepo, assignmentRepo, routineAssignRepo, replacementRepo, submissionRepo, notifier)
	clientService := service.NewClientService(userRepo, assignmentRepo, routineAssignRepo, completionRepo, submissionRepo, fileStorage, notifier)
	calendarService := service.NewCalendarService(userRepo, programRepo, routineRepo, assignmentRepo, routineAssignRepo, replacementRepo, completionRepo, zlog)
	lessonService := service.NewLessonService(lessonRepo, replacementRepo, assignmentRepo, userRepo, dbClient, notifier, zlog)
	messageService := service.NewMessageService(messageRepo, notificationRepo, userRepo, notifier)

	// --- Initialize Gin Engine ---
	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, authService, coachService, clientService, calendarService, lessonService, messageService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("address", cfg.Server.Address))

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exiting")
}
