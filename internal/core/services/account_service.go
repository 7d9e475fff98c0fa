package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

const maxSearchResults = 50

// AccountService owns the chart of accounts.
type AccountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryWithTx
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*AccountService)

// WithAccountClock overrides the clock used for audit fields.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *AccountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(txManager portsrepo.TransactionManager, repo portsrepo.AccountRepositoryWithTx, options ...AccountServiceOption) *AccountService {
	svc := &AccountService{txManager: txManager, accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// GetHierarchy returns the tenant's chart as a tree. Inactive accounts are
// included so history stays navigable.
func (s *AccountService) GetHierarchy(ctx context.Context, lc domain.LedgerContext) ([]*domain.AccountNode, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	tree, err := s.loadTree(ctx, lc.TenantID)
	if err != nil {
		return nil, err
	}
	return tree.Roots, nil
}

func (s *AccountService) loadTree(ctx context.Context, tenantID string) (*domain.AccountTree, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	tree, err := domain.BuildAccountTree(accounts)
	if err != nil {
		s.LogError(ctx, err, "Stored chart of accounts is inconsistent", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return tree, nil
}

// FindByCode returns a single account or ErrNotFound.
func (s *AccountService) FindByCode(ctx context.Context, lc domain.LedgerContext, code string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewValidationError("account code is required")
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, lc.TenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find account", slog.String("account_code", code))
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

// Search returns active accounts whose code or name matches query.
func (s *AccountService) Search(ctx context.Context, lc domain.LedgerContext, query string) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("search query is required")
	}
	accounts, err := s.accountRepo.SearchActiveAccounts(ctx, lc.TenantID, query, maxSearchResults)
	if err != nil {
		s.LogError(ctx, err, "Failed to search accounts", slog.String("query", query))
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	return accounts, nil
}

// GetActiveAccounts returns the postable accounts ordered by code.
func (s *AccountService) GetActiveAccounts(ctx context.Context, lc domain.LedgerContext) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListActiveAccounts(ctx, lc.TenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active accounts")
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}
	return accounts, nil
}

// SeedChart merges accounts into the tenant's chart. The merged chart must
// still form a valid tree, and accounts with posted lines keep their type.
func (s *AccountService) SeedChart(ctx context.Context, lc domain.LedgerContext, accounts []domain.Account) error {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleAdmin); err != nil {
		return err
	}
	if len(accounts) == 0 {
		return apperrors.NewValidationError("chart of accounts is empty")
	}

	now := s.Now()
	seeded := make([]domain.Account, len(accounts))
	seen := make(map[string]bool, len(accounts))
	for i, acc := range accounts {
		if seen[acc.Code] {
			return apperrors.NewValidationError("duplicate account code %s", acc.Code)
		}
		seen[acc.Code] = true
		acc.TenantID = lc.TenantID
		acc.CreatedAt, acc.CreatedBy = now, lc.ActorID
		acc.LastUpdatedAt, acc.LastUpdatedBy = now, lc.ActorID
		seeded[i] = acc
	}

	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.accountRepo.WithTx(tx)
		if err := repo.LockChart(ctx, lc.TenantID); err != nil {
			return fmt.Errorf("failed to lock chart of accounts: %w", err)
		}
		existing, err := repo.ListAccounts(ctx, lc.TenantID)
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}

		merged, retyped := overlayChart(existing, seeded)
		if _, err := domain.BuildAccountTree(merged); err != nil {
			return apperrors.NewValidationError("%v", err)
		}
		if len(retyped) > 0 {
			used, err := repo.CodesWithPostedLines(ctx, lc.TenantID, retyped)
			if err != nil {
				return fmt.Errorf("failed to check account usage: %w", err)
			}
			if len(used) > 0 {
				return fmt.Errorf("%w: cannot change the type of accounts with posted lines: %s",
					apperrors.ErrConflict, strings.Join(used, ", "))
			}
		}
		if err := repo.UpsertAccounts(ctx, seeded); err != nil {
			return fmt.Errorf("failed to seed chart of accounts: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to seed chart of accounts", slog.Int("accounts", len(seeded)))
		}
		return err
	}
	s.LogInfo(ctx, "Chart of accounts seeded", slog.String("tenant_id", lc.TenantID), slog.Int("accounts", len(seeded)))
	return nil
}

// overlayChart replaces stored accounts by code with the seeded ones and
// reports which stored accounts change type.
func overlayChart(existing, seeded []domain.Account) ([]domain.Account, []string) {
	incoming := make(map[string]domain.Account, len(seeded))
	for _, acc := range seeded {
		incoming[acc.Code] = acc
	}

	merged := make([]domain.Account, 0, len(existing)+len(seeded))
	var retyped []string
	for _, acc := range existing {
		next, ok := incoming[acc.Code]
		if !ok {
			merged = append(merged, acc)
			continue
		}
		if next.AccountType != acc.AccountType {
			retyped = append(retyped, acc.Code)
		}
		merged = append(merged, next)
		delete(incoming, acc.Code)
	}
	for _, acc := range seeded {
		if _, ok := incoming[acc.Code]; ok {
			merged = append(merged, acc)
		}
	}
	return merged, retyped
}

// SetActive activates or deactivates an account. Inactive accounts reject
// new lines but stay visible in reports.
func (s *AccountService) SetActive(ctx context.Context, lc domain.LedgerContext, code string, active bool) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SetAccountActive(ctx, lc.TenantID, code, active, lc.ActorID, s.Now()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to change account status", slog.String("account_code", code))
		return nil, fmt.Errorf("failed to change account status: %w", err)
	}
	s.LogInfo(ctx, "Account status changed", slog.String("account_code", code), slog.Bool("is_active", active))
	return s.accountRepo.FindAccountByCode(ctx, lc.TenantID, code)
}
