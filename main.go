package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hagateway/twilio-dispatch/environments"
	"github.com/hagateway/twilio-dispatch/handlers"
	"github.com/hagateway/twilio-dispatch/internal/dispatch"
	"github.com/hagateway/twilio-dispatch/internal/repository"
	"github.com/hagateway/twilio-dispatch/internal/scheduler"
	"github.com/hagateway/twilio-dispatch/internal/service"
	"github.com/hagateway/twilio-dispatch/pkg/database"
	"github.com/hagateway/twilio-dispatch/pkg/events"
	"github.com/hagateway/twilio-dispatch/pkg/logger"
	"github.com/hagateway/twilio-dispatch/pkg/redis"
	"github.com/hagateway/twilio-dispatch/pkg/twilio"
	"github.com/hagateway/twilio-dispatch/pkg/validator"
	"github.com/hagateway/twilio-dispatch/routes"

	_ "github.com/hagateway/twilio-dispatch/docs" // swagger docs
)

// @title Twilio Dispatch Gateway API
// @version 1.0
// @description SMS/MMS dispatch gateway for home-automation notifications via Twilio

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	cfg := environments.Load()

	logger.Init(cfg.Debug)

	// Hard-fail if required secrets are missing
	if cfg.Twilio.AccountSID == "" {
		logger.Fatalf("TWILIO_ACCOUNT_SID is required but not set")
	}
	if cfg.Twilio.AuthToken == "" {
		logger.Fatalf("TWILIO_AUTH_TOKEN is required but not set")
	}
	if cfg.Auth.MessagesAPIKey == "" {
		logger.Fatalf("MESSAGES_API_KEY is required but not set")
	}
	if cfg.Auth.SchedulerAPIKey == "" {
		logger.Fatalf("SCHEDULER_API_KEY is required but not set")
	}

	logger.Infof("Starting Twilio Dispatch Gateway...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init redis
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, caching disabled: %v", err)
		redisClient = nil
	}

	// Initialize Twilio client
	twilioClient := twilio.NewClient(cfg.Twilio)

	// Sender pool: explicit config wins; otherwise discover the account's
	// numbers from the provider so from_number can still be checked.
	senderPool := cfg.Twilio.FromNumbers
	if len(senderPool) == 0 {
		discoverCtx, discoverCancel := context.WithTimeout(context.Background(), 10*time.Second)
		numbers, err := twilioClient.ListIncomingPhoneNumbers(discoverCtx)
		discoverCancel()

		if err != nil {
			logger.Warnf("Could not discover sender numbers, any valid from_number will be accepted: %v", err)
		} else {
			for _, n := range numbers {
				senderPool = append(senderPool, n.PhoneNumber)
			}
			logger.Infof("Discovered %d sender numbers from provider", len(senderPool))
		}
	}

	// Initialize optional events publisher
	var eventsPublisher *events.Publisher
	if cfg.Events.URL != "" {
		eventsPublisher, err = events.NewPublisher(cfg.Events)
		if err != nil {
			logger.Warnf("AMQP not available, events disabled: %v", err)
			eventsPublisher = nil
		}
	}

	// Initialize dispatch engine
	engine := dispatch.NewDispatcher(twilioClient, dispatch.Options{
		ExternalBaseURL: cfg.Dispatch.ExternalBaseURL,
		SenderPool:      senderPool,
		SendTimeout:     cfg.Dispatch.SendTimeout,
		MaxConcurrency:  cfg.Dispatch.MaxConcurrency,
	})

	if cfg.Dispatch.ExternalBaseURL == "" {
		logger.Warnf("EXTERNAL_BASE_URL not set, local media references will be rejected")
	}

	// Initialize repository
	dispatchRepo := repository.NewDispatchRepository(db)

	// Initialize service
	dispatchService := service.NewDispatchService(
		dispatchRepo,
		engine,
		twilioClient,
		cfg.Message,
	)
	if redisClient != nil {
		dispatchService.WithCache(redisClient)
	}
	if eventsPublisher != nil {
		dispatchService.WithEvents(eventsPublisher)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize scheduler
	sched := scheduler.NewScheduler(dispatchService, cfg.Message.SendInterval)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient)
	dispatchHandler := handlers.NewDispatchHandler(dispatchService)
	numberHandler := handlers.NewNumberHandler(dispatchService)
	schedulerHandler := handlers.NewSchedulerHandler(sched, ctx, cfg)

	// Auto-start scheduler
	if os.Getenv("AUTO_START_SCHEDULER") != "false" {
		logger.Infof("Auto-starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			logger.Warnf("Failed to auto-start scheduler: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-api-key",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, dispatchHandler, numberHandler, schedulerHandler, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Cancel context to signal all goroutines to stop
	cancel()

	// Stop scheduler first (with timeout)
	if sched.IsRunning() {
		logger.Infof("Stopping scheduler...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- sched.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping scheduler: %v", err)
			} else {
				logger.Infof("Scheduler stopped successfully")
			}
		case <-stopCtx.Done():
			logger.Warnf("Scheduler stop timeout, forcing shutdown")
		}
	}

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	// Close AMQP connection
	if eventsPublisher != nil {
		logger.Infof("Closing AMQP connection...")
		if err := eventsPublisher.Close(); err != nil {
			logger.Errorf("Error closing AMQP: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
