package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByCode retrieves one account of the tenant.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves the accounts that exist for codes, keyed by code.
	// Missing codes are simply absent from the map.
	FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the whole chart, active or not, ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)

	// ListActiveAccounts retrieves postable accounts ordered by code.
	ListActiveAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)

	// SearchActiveAccounts matches code or name, active only, ordered by code.
	SearchActiveAccounts(ctx context.Context, tenantID, query string, limit int) ([]domain.Account, error)

	// CodesWithPostedLines returns the subset of codes referenced by a posted entry.
	CodesWithPostedLines(ctx context.Context, tenantID string, codes []string) ([]string, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// LockChart serializes chart changes of the tenant until the transaction ends.
	LockChart(ctx context.Context, tenantID string) error

	// UpsertAccounts inserts or updates accounts keyed by (tenant_id, code).
	UpsertAccounts(ctx context.Context, accounts []domain.Account) error

	// SetAccountActive flips is_active for one account.
	SetAccountActive(ctx context.Context, tenantID, code string, active bool, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountRepositoryWithTx can rebind itself to a running transaction.
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	WithTx(tx pgx.Tx) AccountRepositoryFacade
}
