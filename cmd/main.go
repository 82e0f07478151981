package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"msme-logistics/internal/config"
	"msme-logistics/internal/database"
	"msme-logistics/internal/infrastructure/database/postgres"
	"msme-logistics/internal/ingestion"
	"msme-logistics/internal/logger"
	"msme-logistics/internal/realtime"
	"msme-logistics/internal/routes"
	deliveryUsecase "msme-logistics/internal/usecase/delivery"
	"msme-logistics/internal/usecase/inventory"
	"msme-logistics/internal/usecase/routeplan"
	"msme-logistics/internal/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	userRepo := postgres.NewUserRepository(db.DB)
	deliveryRepo := postgres.NewDeliveryRepository(db.DB)
	inventoryRepo := postgres.NewInventoryRepository(db.DB)

	hub := realtime.NewHub(logger.Logger)

	services := &routes.Services{
		User:      user.NewService(userRepo, cfg, logger.Logger),
		Delivery:  deliveryUsecase.NewService(deliveryRepo, userRepo, hub, cfg.Pricing.Currency, logger.Logger),
		Inventory: inventory.NewService(inventoryRepo, cfg.Pricing.Currency, logger.Logger),
		Routeplan: routeplan.NewService(nil, cfg.Pricing.FuelPricePerLitre, logger.Logger),
		Hub:       hub,
	}

	if cfg.MQTT.Enabled {
		processor := ingestion.NewProcessor(ingestion.DefaultProcessorConfig(), services.Delivery, logger.Logger)
		processor.Start()
		defer processor.Stop()

		mqttIngestion := ingestion.NewMQTTIngestion(cfg.MQTT, processor, logger.Logger)
		if err := mqttIngestion.Start(); err != nil {
			logger.Fatal("Failed to start driver location ingestion", zap.Error(err))
		}
		defer mqttIngestion.Stop()
	}

	router := routes.SetupRoutes(cfg, db, services)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}
