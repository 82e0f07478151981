package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"msme-logistics/internal/config"
	"msme-logistics/internal/database"
	"msme-logistics/internal/delivery/http/handler"
	"msme-logistics/internal/logger"
	"msme-logistics/internal/middleware"
	"msme-logistics/internal/realtime"
	deliveryUsecase "msme-logistics/internal/usecase/delivery"
	"msme-logistics/internal/usecase/inventory"
	"msme-logistics/internal/usecase/routeplan"
	"msme-logistics/internal/usecase/user"
)

// Services collects the usecase layer the HTTP surface exposes. Built in
// main so the same delivery service also backs MQTT ingestion.
type Services struct {
	User      *user.Service
	Delivery  *deliveryUsecase.Service
	Inventory *inventory.Service
	Routeplan *routeplan.Service
	Hub       *realtime.Hub
}

func SetupRoutes(cfg *config.Config, db *database.Database, services *Services) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware order: recovery first, then request ID so every log line
	// carries one, then the outer protections.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(10 << 20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userHandler := handler.NewUserHandler(services.User)
	deliveryHandler := handler.NewDeliveryHandler(services.Delivery)
	inventoryHandler := handler.NewInventoryHandler(services.Inventory)
	routeHandler := handler.NewRouteHandler(services.Routeplan)
	wsHandler := handler.NewWSHandler(services.Hub, services.Delivery)

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterAuthRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterRoutes(protected)
			deliveryHandler.RegisterRoutes(protected)
			inventoryHandler.RegisterRoutes(protected)
			routeHandler.RegisterRoutes(protected)
			wsHandler.RegisterRoutes(protected)
		}
	}

	logger.Info("all routes initialized")
	return router
}
