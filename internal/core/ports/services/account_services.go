package services

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// AccountReaderSvc defines read-only chart of accounts operations
type AccountReaderSvc interface {
	// GetHierarchy returns the account tree rooted at the top-level type nodes.
	GetHierarchy(ctx context.Context, lc domain.LedgerContext) ([]*domain.AccountNode, error)

	// FindByCode returns a single account or ErrNotFound.
	FindByCode(ctx context.Context, lc domain.LedgerContext, code string) (*domain.Account, error)

	// Search returns active accounts whose code or name matches, ordered by code.
	Search(ctx context.Context, lc domain.LedgerContext, query string) ([]domain.Account, error)

	// GetActiveAccounts returns the flat list of postable accounts.
	GetActiveAccounts(ctx context.Context, lc domain.LedgerContext) ([]domain.Account, error)
}

// AccountAdminSvc defines administrative chart maintenance
type AccountAdminSvc interface {
	// SeedChart merges accounts into the tenant chart after validating the merged tree.
	SeedChart(ctx context.Context, lc domain.LedgerContext, accounts []domain.Account) error

	// SetActive activates or deactivates an account.
	SetActive(ctx context.Context, lc domain.LedgerContext, code string, active bool) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountAdminSvc
}
