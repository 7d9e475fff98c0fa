// Package bootstrap wires the stores and services shared by the ledger binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/core/services"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/repositories/database/mongodb"
	"github.com/SscSPs/coop_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/coop_ledger/pkg/database"
)

// App holds the connected stores and the service container built on them.
type App struct {
	Services *portssvc.ServiceContainer

	logger     *slog.Logger
	postgres   *database.PostgresDB
	mongo      *mongodb.MongoDB
	workerPool *services.WorkerPoolEventService
}

// New connects PostgreSQL, and MongoDB when MONGO_URI is set, then builds
// the services. Event journalizing is bounded by the worker pool.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	postgresDB, err := database.NewPostgresDB(ctx, logger, database.PoolConfig{
		URL:             cfg.Postgres.URL,
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	app := &App{logger: logger, postgres: postgresDB}

	// A nil interface, not a typed nil pointer, disables the audit trail.
	var audit portsrepo.AuditTrail
	if cfg.MongoDB.URI != "" {
		mongoDB, err := mongodb.NewMongoDB(ctx, logger, mongodb.Config{
			URI:             cfg.MongoDB.URI,
			Database:        cfg.MongoDB.Database,
			Timeout:         cfg.MongoDB.Timeout,
			MaxPoolSize:     cfg.MongoDB.MaxPoolSize,
			MinPoolSize:     cfg.MongoDB.MinPoolSize,
			MaxConnIdleTime: cfg.MongoDB.MaxConnIdleTime,
		})
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		app.mongo = mongoDB

		auditRepo := mongodb.NewAuditTrailRepository(logger, mongoDB.Database())
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("failed to create audit indexes: %w", err)
		}
		audit = auditRepo
	} else {
		logger.Warn("MONGO_URI not set, journal audit trail disabled")
	}

	container := services.NewServiceContainer(pgsql.NewRepositoryProvider(postgresDB, audit))

	pool, err := services.NewWorkerPoolEventService(container.Event, services.WorkerPoolConfig{Size: cfg.WorkerPool.Size}, logger)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to create event worker pool: %w", err)
	}
	container.Event = pool
	app.workerPool = pool
	app.Services = container

	return app, nil
}

// Close releases the worker pool and disconnects the stores.
func (a *App) Close(ctx context.Context) {
	if a.workerPool != nil {
		a.workerPool.Shutdown()
	}
	if a.mongo != nil {
		if err := a.mongo.Close(ctx); err != nil {
			a.logger.Error("Error closing MongoDB connection", "error", err)
		}
	}
	a.postgres.Close()
}
