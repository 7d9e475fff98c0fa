package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/utils"
)

// ledger_token mints a bearer token signed with JWT_SECRET, for local
// development and for service callers without an identity provider.
func main() {
	tenantID := flag.String("tenant", "", "tenant (cooperative) id")
	actorID := flag.String("actor", "", "actor id written to audit fields")
	role := flag.String("role", "accountant", "one of readonly, clerk, accountant, admin, system")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	lc := domain.LedgerContext{TenantID: *tenantID, ActorID: *actorID, Role: domain.ParseTenantRole(*role)}
	token, err := utils.GenerateLedgerToken(cfg.Auth.JWTSecret, lc, *ttl, "ledger-token")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
