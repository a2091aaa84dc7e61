package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"farmtap-backend/internal/config"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/messaging"
	"farmtap-backend/internal/repository/postgres"
	"farmtap-backend/internal/service"
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
	logger.Info("Starting FarmTap notifier...", "log_level", cfg.Log.Level)

	if err := run(cfg); err != nil {
		logger.Error("Notifier failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Notifier stopped")
}

func run(cfg *config.Config) error {
	if cfg.RabbitMQ.URL == "" {
		return errors.New("RabbitMQ URL is required for the notifier")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return err
	}
	defer db.Close()
	store := postgres.NewStore(db)

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		logger.Info("Sending email through SendGrid", "from", cfg.SendGrid.FromEmail)
	} else if cfg.SMTP.Host != "" {
		emailSvc = service.NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		logger.Info("Sending email through SMTP", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
	} else {
		emailSvc = service.NewLogEmailService()
		logger.Warn("No email provider configured, emails are only logged")
	}
	notificationSvc := service.NewNotificationService(store.UserRepository, emailSvc)

	rabbit, err := messaging.NewRabbitMQClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer rabbit.Close()

	logger.Info("Consuming booking events", "queue", cfg.RabbitMQ.QueueName)
	if err := rabbit.Consume(ctx, notificationSvc.HandleBookingEvent); err != nil {
		return fmt.Errorf("consumer stopped: %w", err)
	}
	return nil
}
