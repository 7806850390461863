// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"landedcost/internal/domain/costing"
	"landedcost/internal/domain/records"
	"landedcost/internal/infrastructure/http/v1/handlers"
	"landedcost/internal/infrastructure/http/v1/middleware"
	"landedcost/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Engine computes landed costs
	Engine *costing.Engine

	// Rates is the configured exchange rate table
	Rates costing.RateTable

	// RecordService fronts the primary and fallback record stores
	RecordService *records.Service

	// PrimaryStore is nil when no remote database is configured
	PrimaryStore records.Store

	// FallbackStore is the local SQLite store, always present
	FallbackStore records.Store

	// AuthSecret enables bearer-token auth on /api/v1 when non-empty
	AuthSecret string

	// Version reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.PrimaryStore, cfg.FallbackStore, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	costingHandler := handlers.NewCostingHandler(baseHandler, cfg.Engine, cfg.Rates)
	recordsHandler := handlers.NewRecordsHandler(baseHandler, cfg.Engine, cfg.Rates, cfg.RecordService)

	// API v1
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.AuthSecret))
	{
		costingGroup := apiV1.Group("/costing")
		{
			costingGroup.POST("/calculate", costingHandler.Calculate)
			costingGroup.POST("/margin/price", costingHandler.PriceFromMargin)
			costingGroup.POST("/margin/from-price", costingHandler.MarginFromPrice)
			costingGroup.GET("/containers", costingHandler.Containers)
		}

		calculations := apiV1.Group("/calculations")
		{
			calculations.POST("", recordsHandler.Save)
			calculations.GET("", recordsHandler.List)
			calculations.GET("/categories", recordsHandler.Categories)
			calculations.GET("/:id", recordsHandler.Get)
			calculations.PUT("/:id", recordsHandler.Update)
			calculations.DELETE("/:id", recordsHandler.Delete)
			calculations.GET("/:id/export", recordsHandler.Export)
		}
	}

	return router
}
