package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/hagateway/twilio-dispatch/environments"
	"github.com/hagateway/twilio-dispatch/handlers"
	"github.com/hagateway/twilio-dispatch/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	dispatchHandler *handlers.DispatchHandler,
	numberHandler *handlers.NumberHandler,
	schedulerHandler *handlers.SchedulerHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 base group
	v1 := e.Group("/api/v1")

	// Message routes with their own API key
	messages := v1.Group("/messages", middlewares.APIKeyAuth(cfg.Auth.MessagesAPIKey))

	messages.POST("/send", dispatchHandler.SendMessage)
	messages.POST("", dispatchHandler.CreateDispatch)
	messages.GET("", dispatchHandler.GetAllDispatches)
	messages.GET("/stats", dispatchHandler.GetStats)
	messages.GET("/cached", dispatchHandler.GetCachedDispatches)
	messages.GET("/:id", dispatchHandler.GetDispatch)

	// Replay endpoints
	messages.POST("/replay", dispatchHandler.ReplayAllFailedDispatches)
	messages.POST("/:id/replay", dispatchHandler.ReplayFailedDispatch)

	// Provider number listing shares the messages API key
	numbers := v1.Group("/numbers", middlewares.APIKeyAuth(cfg.Auth.MessagesAPIKey))
	numbers.GET("", numberHandler.GetNumbers)

	// Scheduler routes with their own API key
	schedulerGroup := v1.Group("/scheduler", middlewares.APIKeyAuth(cfg.Auth.SchedulerAPIKey))

	schedulerGroup.POST("/start", schedulerHandler.StartScheduler)
	schedulerGroup.POST("/stop", schedulerHandler.StopScheduler)
	schedulerGroup.GET("/status", schedulerHandler.GetSchedulerStatus)
}
