// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"bakeops/internal/domain/auth"
	"bakeops/internal/domain/catalogs/branch"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/documents/stocktxn"
	"bakeops/internal/domain/finance"
	"bakeops/internal/domain/registers/inventory"
	"bakeops/internal/infrastructure/http/v1/handlers"
	"bakeops/internal/infrastructure/http/v1/middleware"
	"bakeops/pkg/logger"
)

// RouterConfig holds the wired services the API serves.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Version reported by /health/info
	Version string

	AuthService      *auth.Service
	BranchService    *branch.Service
	ProductService   *product.Service
	StockService     *stocktxn.Service
	InventoryService *inventory.Service
	FinanceService   *finance.Service
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
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth: login and register are public, /me requires a token
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		publicAuth := v1.Group("/auth")
		protectedAuth := v1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		// Everything else requires a token
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		branchHandler := handlers.NewBranchHandler(baseHandler, cfg.BranchService)
		branchHandler.RegisterRoutes(protected.Group("/branches"))

		productHandler := handlers.NewProductHandler(baseHandler, cfg.ProductService)
		productHandler.RegisterRoutes(protected.Group("/products"))

		stockHandler := handlers.NewStockHandler(baseHandler, cfg.StockService)
		stockHandler.RegisterRoutes(protected.Group("/stock/transactions"))

		inventoryHandler := handlers.NewInventoryHandler(baseHandler, cfg.InventoryService)
		inventoryHandler.RegisterRoutes(protected.Group("/inventory"))
		protected.POST("/inventory/:branchId/rebuild", middleware.RequireAdmin(), inventoryHandler.Rebuild)

		financeHandler := handlers.NewFinanceHandler(baseHandler, cfg.FinanceService)
		financeHandler.RegisterRoutes(protected.Group("/finance"))
	}

	return router
}
