package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/coop_ledger/internal/adapters/messaging/kafka"
	"github.com/SscSPs/coop_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/platform/logger"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig()
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	app, err := bootstrap.New(appCtx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	consumer := kafka.NewConsumer(log, kafka.ConsumerConfig{
		Brokers:          cfg.Kafka.Brokers,
		Topic:            cfg.Kafka.EventsTopic,
		GroupID:          cfg.Kafka.ConsumerGroup,
		MinBytes:         cfg.Kafka.MinBytes,
		MaxBytes:         cfg.Kafka.MaxBytes,
		MaxWait:          cfg.Kafka.MaxWait,
		MaxAttempts:      cfg.Kafka.MaxAttempts,
		RetryInterval:    cfg.Kafka.RetryInterval,
		MaxRetryInterval: cfg.Kafka.MaxRetryInterval,
	})
	handler := kafka.NewEventHandler(app.Services.Event, cfg.Kafka.ActorID, log)

	errChan := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.EventsTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := consumer.Run(appCtx, handler.Handle); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serviceErr = <-errChan:
		log.Error("Service error occurred", "error", serviceErr)
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Waiting for consumer to stop...")
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if err := consumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}
	app.Close(shutdownCtx)

	if serviceErr != nil {
		log.Error("Event consumer shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Event consumer shutdown completed")
}
