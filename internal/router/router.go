// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Patty240/nanotrade/internal/clock"
	"github.com/Patty240/nanotrade/internal/config"
	"github.com/Patty240/nanotrade/internal/handlers"
	"github.com/Patty240/nanotrade/internal/marketplace"
	"github.com/Patty240/nanotrade/internal/middleware"
	"github.com/Patty240/nanotrade/internal/services"
	"github.com/Patty240/nanotrade/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	authService := services.NewAuthService(db, cfg)

	var settler marketplace.Settler = services.NoopSettler{}
	if cfg.Payment.SettlementEnabled {
		settler = services.NewStripeSettler(cfg)
	}

	ledgerClock := clock.NewSystem()
	engine := marketplace.NewEngine(marketplace.NewLedger(), ledgerClock, settler)

	var archiveService *services.ArchiveService
	if db != nil {
		archiveService = services.NewArchiveService(db)
	}
	marketService := services.NewMarketService(engine, archiveService, ledgerClock)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	marketHandler := handlers.NewMarketHandler(marketService, storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Innovation routes
		innovations := v1.Group("/innovations")
		{
			innovations.GET("/:id", middleware.OptionalAuth(), marketHandler.GetInnovation)
			innovations.GET("/:id/listing", marketHandler.GetListing)
			innovations.GET("/:id/highest-bid", marketHandler.GetHighestBid)

			// Authenticated routes
			protected := innovations.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", marketHandler.ListInnovation)
				protected.POST("/:id/bids", middleware.BidRateLimit(), marketHandler.PlaceBid)
				protected.POST("/:id/accept", marketHandler.AcceptBid)
				protected.POST("/:id/withdraw", marketHandler.WithdrawListing)
				protected.POST("/upload", middleware.UploadRateLimit(), marketHandler.UploadDocuments)
			}

			// Per-innovation bid archive, admin only
			innovations.GET("/:id/bids", middleware.AuthRequired(), middleware.AdminRequired(), marketHandler.GetInnovationBids)
		}

		// Trade history (archived projections)
		trades := v1.Group("/trades")
		{
			trades.GET("", marketHandler.GetTrades)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
