package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/SscSPs/coop_ledger/internal/adapters/chart"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/platform/logger"
	"github.com/SscSPs/coop_ledger/pkg/database"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant (cooperative) to seed")
	chartPath := flag.String("chart", "configs/chart.yaml", "chart of accounts YAML file")
	actorID := flag.String("actor", "ledger-seed", "actor recorded on the seeded accounts")
	flag.Parse()

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "-tenant is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg.Logging.Level)

	accounts, err := chart.Load(*chartPath)
	if err != nil {
		log.Error("Failed to load chart of accounts", "path", *chartPath, "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
		log.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer app.Close(ctx)

	lc := domain.LedgerContext{TenantID: *tenantID, ActorID: *actorID, Role: domain.RoleAdmin}
	if err := app.Services.Account.SeedChart(ctx, lc, accounts); err != nil {
		log.Error("Failed to seed chart of accounts", "tenant_id", *tenantID, "error", err)
		app.Close(ctx)
		os.Exit(1)
	}
	log.Info("Chart of accounts seeded", "tenant_id", *tenantID, "accounts", len(accounts))
}
