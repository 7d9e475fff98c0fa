package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/coop_ledger/internal/handlers"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/SscSPs/coop_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/platform/logger"
	"github.com/SscSPs/coop_ledger/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title Cooperative Ledger API
// @version 1.0
// @description Double-entry general ledger for a savings and loan cooperative.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
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

	log.Info("Running database migrations...", "path", cfg.Postgres.MigrationsPath)
	if err := database.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
		log.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}
	log.Info("Database migrations applied")

	app, err := bootstrap.New(appCtx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.CorrelationID(), middleware.StructuredLoggingMiddleware(log), middleware.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Error("Failed to set trusted proxies", "error", err)
		os.Exit(1)
	}
	if err := handlers.RegisterRoutes(r, cfg, app.Services); err != nil {
		log.Error("Failed to register routes", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serverErr = <-errChan:
		log.Error("Server error occurred", "error", serverErr)
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}
	app.Close(shutdownCtx)

	if serverErr != nil {
		log.Error("Ledger backend shutdown with errors", "error", serverErr)
		os.Exit(1)
	}
	log.Info("Ledger backend shutdown completed")
}
