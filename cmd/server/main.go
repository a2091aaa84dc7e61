package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "farmtap-backend/internal/api/http"
	"farmtap-backend/internal/config"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/messaging"
	"farmtap-backend/internal/repository/postgres"
	"farmtap-backend/internal/security"
	"farmtap-backend/internal/service"
	"farmtap-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envFile := flag.String("env-file", ".env", "Optional .env file with environment overrides")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FarmTap backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	if err := run(cfg); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(cfg.GetDatabaseConnectionString()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Storage Service
	storageService, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.Storage.Type, err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// Initialize event publisher
	var publisher messaging.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := messaging.NewRabbitMQClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer rabbit.Close()
		publisher = rabbit
		logger.Info("Publishing booking events to RabbitMQ", "queue", cfg.RabbitMQ.QueueName)
	} else {
		publisher = messaging.NewLogPublisher()
		logger.Info("RabbitMQ not configured, booking events are only logged")
	}

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, cfg.IsAdminEmail, cfg.Auth.BcryptCost)
	userSvc := service.NewUserService(store.UserRepository, cfg.Auth.BcryptCost)
	equipmentSvc := service.NewEquipmentService(store.EquipmentRepository, storageService, service.ImageOptions{
		AllowedTypes: cfg.Storage.AllowedTypes,
		URLExpiry:    time.Duration(cfg.Storage.S3.PresignMinutes) * time.Minute,
	})
	bookingSvc := service.NewBookingService(store.BookingRepository, store.EquipmentRepository, store.UserRepository, publisher)

	// Initialize HTTP handlers
	handlers := httpapi.Handlers{
		Auth:      httpapi.NewAuthHandler(authSvc),
		Bookings:  httpapi.NewBookingHandler(bookingSvc),
		Equipment: httpapi.NewEquipmentHandler(equipmentSvc, cfg.Storage.MaxFileSize<<20),
		Users:     httpapi.NewUserHandler(userSvc),
		Health:    httpapi.NewHealthHandler(store, time.Now()),
	}
	if mockStorage, ok := storageService.(*storage.MockStorageService); ok {
		handlers.Files = httpapi.NewFileHandler(mockStorage)
		logger.Info("Serving stored files from local disk", "upload_dir", cfg.Storage.UploadDir)
	}

	router := httpapi.NewRouter(handlers, authSvc)
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      httpapi.NewHandler(router, cfg.Server.AllowedOrigins),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
