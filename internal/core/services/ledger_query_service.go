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
	"github.com/SscSPs/coop_ledger/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const currentEarningsLabel = "Current Earnings"

// LedgerQueryService derives reports from posted lines. Each report reads
// from a single snapshot so its figures agree with each other.
type LedgerQueryService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryWithTx
	reportRepo  portsrepo.ReportingRepositoryWithTx
}

// NewLedgerQueryService creates a new ledger query service
func NewLedgerQueryService(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryWithTx, reportRepo portsrepo.ReportingRepositoryWithTx) *LedgerQueryService {
	return &LedgerQueryService{
		txManager:   txManager,
		accountRepo: accountRepo,
		reportRepo:  reportRepo,
	}
}

var _ portssvc.LedgerQuerySvc = (*LedgerQueryService)(nil)

// GeneralLedger returns the running-balance detail of an account and its
// descendants over [start, end].
func (s *LedgerQueryService) GeneralLedger(ctx context.Context, lc domain.LedgerContext, accountCode string, start, end time.Time) (*domain.GeneralLedger, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	start, end = dateOnly(start), dateOnly(end)
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}
	accountCode = strings.TrimSpace(accountCode)

	var gl *domain.GeneralLedger
	err := s.txManager.ExecuteSnapshot(ctx, func(tx pgx.Tx) error {
		tree, err := s.snapshotTree(ctx, tx, lc.TenantID)
		if err != nil {
			return err
		}
		node, ok := tree.Node(accountCode)
		if !ok {
			return fmt.Errorf("account %s: %w", accountCode, apperrors.ErrNotFound)
		}
		codes := tree.SubtreeCodes(accountCode)
		normal := node.NormalBalance()
		repo := s.reportRepo.WithTx(tx)

		beforeStart := start.AddDate(0, 0, -1)
		prior, err := repo.SumPostedActivityForAccounts(ctx, lc.TenantID, codes, domain.DateRange{To: &beforeStart})
		if err != nil {
			return fmt.Errorf("failed to sum opening activity: %w", err)
		}
		opening := decimal.Zero
		for _, a := range prior {
			opening = opening.Add(accounting.SignedAmount(a.Debit, a.Credit, normal))
		}

		posted, err := repo.ListPostedLines(ctx, lc.TenantID, codes, domain.DateRange{From: &start, To: &end})
		if err != nil {
			return fmt.Errorf("failed to list posted lines: %w", err)
		}

		gl = &domain.GeneralLedger{
			Account:        node.Account,
			StartDate:      start,
			EndDate:        end,
			OpeningBalance: opening,
			Lines:          make([]domain.GeneralLedgerLine, 0, len(posted)),
			TotalDebit:     decimal.Zero,
			TotalCredit:    decimal.Zero,
		}
		running := opening
		for _, l := range posted {
			running = running.Add(accounting.SignedAmount(l.Debit, l.Credit, normal))
			description := l.LineDescription
			if description == "" {
				description = l.Description
			}
			gl.Lines = append(gl.Lines, domain.GeneralLedgerLine{
				Date:        l.EntryDate,
				EntryID:     l.EntryID,
				EntryNumber: l.EntryNumber,
				Reference:   l.Reference,
				Description: description,
				AccountCode: l.AccountCode,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Balance:     running,
			})
			gl.TotalDebit = gl.TotalDebit.Add(l.Debit)
			gl.TotalCredit = gl.TotalCredit.Add(l.Credit)
		}
		gl.ClosingBalance = running
		return nil
	})
	if err != nil {
		return nil, s.wrapQueryError(ctx, err, "general ledger", slog.String("account_code", accountCode))
	}
	return gl, nil
}

// TrialBalance lists each account's own posted activity over [start, end].
// Accounts without activity are omitted.
func (s *LedgerQueryService) TrialBalance(ctx context.Context, lc domain.LedgerContext, start, end time.Time) (*domain.TrialBalance, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	start, end = dateOnly(start), dateOnly(end)
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{
		StartDate:   start,
		EndDate:     end,
		Rows:        []domain.TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	err := s.txManager.ExecuteSnapshot(ctx, func(tx pgx.Tx) error {
		tree, err := s.snapshotTree(ctx, tx, lc.TenantID)
		if err != nil {
			return err
		}
		activity, err := s.reportRepo.WithTx(tx).SumPostedActivity(ctx, lc.TenantID, domain.DateRange{From: &start, To: &end})
		if err != nil {
			return fmt.Errorf("failed to sum posted activity: %w", err)
		}
		byCode := make(map[string]domain.AccountActivity, len(activity))
		for _, a := range activity {
			byCode[a.AccountCode] = a
		}

		tree.Walk(func(n *domain.AccountNode) {
			a, ok := byCode[n.Code]
			if !ok {
				return
			}
			row := domain.TrialBalanceRow{
				AccountCode: n.Code,
				AccountName: n.Name,
				AccountType: n.AccountType,
				TotalDebit:  a.Debit,
				TotalCredit: a.Credit,
				Balance:     accounting.SignedAmount(a.Debit, a.Credit, n.NormalBalance()),
			}
			if !row.HasActivity() {
				return
			}
			tb.Rows = append(tb.Rows, row)
			tb.TotalDebit = tb.TotalDebit.Add(a.Debit)
			tb.TotalCredit = tb.TotalCredit.Add(a.Credit)
		})
		return nil
	})
	if err != nil {
		return nil, s.wrapQueryError(ctx, err, "trial balance")
	}

	tb.IsBalanced = tb.TotalDebit.Equal(tb.TotalCredit)
	if !tb.IsBalanced {
		s.LogError(ctx, errors.New("trial balance does not close"), "Posted activity is out of balance",
			slog.String("tenant_id", lc.TenantID),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}
	return tb, nil
}

// BalanceSheet reports subtree balances of the permanent accounts from
// inception through asOf. Unclosed revenue less expense is carried as a
// computed equity line.
func (s *LedgerQueryService) BalanceSheet(ctx context.Context, lc domain.LedgerContext, asOf time.Time) (*domain.BalanceSheet, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	asOf = dateOnly(asOf)
	if asOf.IsZero() {
		return nil, apperrors.NewValidationError("as-of date is required")
	}

	var bs *domain.BalanceSheet
	err := s.txManager.ExecuteSnapshot(ctx, func(tx pgx.Tx) error {
		tree, totals, err := s.subtreeBalances(ctx, tx, lc.TenantID, domain.DateRange{To: &asOf})
		if err != nil {
			return err
		}
		revenue := buildSection(tree, totals, domain.Revenue)
		expenses := buildSection(tree, totals, domain.Expense)
		earnings := revenue.Total.Sub(expenses.Total)

		bs = &domain.BalanceSheet{
			AsOf:            asOf,
			Assets:          buildSection(tree, totals, domain.Asset),
			Liabilities:     buildSection(tree, totals, domain.Liability),
			Equity:          buildSection(tree, totals, domain.Equity),
			CurrentEarnings: earnings,
		}
		bs.Equity.Accounts = append(bs.Equity.Accounts, domain.AccountBalance{
			AccountName: currentEarningsLabel,
			Balance:     earnings,
		})
		bs.TotalEquity = bs.Equity.Total.Add(earnings)
		return nil
	})
	if err != nil {
		return nil, s.wrapQueryError(ctx, err, "balance sheet")
	}

	bs.IsBalanced = bs.Assets.Total.Equal(bs.Liabilities.Total.Add(bs.TotalEquity))
	if !bs.IsBalanced {
		s.LogError(ctx, errors.New("accounting equation violated"), "Balance sheet does not balance",
			slog.String("tenant_id", lc.TenantID),
			slog.String("as_of", asOf.Format(domain.DateLayout)),
			slog.String("assets", bs.Assets.Total.String()),
			slog.String("liabilities", bs.Liabilities.Total.String()),
			slog.String("equity", bs.TotalEquity.String()))
	}
	return bs, nil
}

// IncomeStatement reports revenue and expense subtree balances over [start, end].
func (s *LedgerQueryService) IncomeStatement(ctx context.Context, lc domain.LedgerContext, start, end time.Time) (*domain.IncomeStatement, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	start, end = dateOnly(start), dateOnly(end)
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}

	var is *domain.IncomeStatement
	err := s.txManager.ExecuteSnapshot(ctx, func(tx pgx.Tx) error {
		tree, totals, err := s.subtreeBalances(ctx, tx, lc.TenantID, domain.DateRange{From: &start, To: &end})
		if err != nil {
			return err
		}
		is = &domain.IncomeStatement{
			StartDate: start,
			EndDate:   end,
			Revenue:   buildSection(tree, totals, domain.Revenue),
			Expenses:  buildSection(tree, totals, domain.Expense),
		}
		is.NetIncome = is.Revenue.Total.Sub(is.Expenses.Total)
		return nil
	})
	if err != nil {
		return nil, s.wrapQueryError(ctx, err, "income statement")
	}
	return is, nil
}

func (s *LedgerQueryService) snapshotTree(ctx context.Context, tx pgx.Tx, tenantID string) (*domain.AccountTree, error) {
	accounts, err := s.accountRepo.WithTx(tx).ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	tree, err := domain.BuildAccountTree(accounts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return tree, nil
}

// subtreeBalances signs each account's activity by its normal balance and
// rolls it up the tree.
func (s *LedgerQueryService) subtreeBalances(ctx context.Context, tx pgx.Tx, tenantID string, period domain.DateRange) (*domain.AccountTree, map[string]decimal.Decimal, error) {
	tree, err := s.snapshotTree(ctx, tx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	activity, err := s.reportRepo.WithTx(tx).SumPostedActivity(ctx, tenantID, period)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sum posted activity: %w", err)
	}
	own := make(map[string]decimal.Decimal, len(activity))
	for _, a := range activity {
		node, ok := tree.Node(a.AccountCode)
		if !ok {
			return nil, nil, fmt.Errorf("%w: activity on unknown account %s", apperrors.ErrInternal, a.AccountCode)
		}
		own[a.AccountCode] = accounting.SignedAmount(a.Debit, a.Credit, node.NormalBalance())
	}
	return tree, accounting.RollUp(tree, own), nil
}

// buildSection lists the accounts of one type in tree order. Zero-balance
// accounts below the top level are left out.
func buildSection(tree *domain.AccountTree, totals map[string]decimal.Decimal, accountType domain.AccountType) domain.StatementSection {
	section := domain.StatementSection{
		AccountType: accountType,
		Accounts:    []domain.AccountBalance{},
		Total:       decimal.Zero,
	}
	var walk func(n *domain.AccountNode)
	walk = func(n *domain.AccountNode) {
		balance := totals[n.Code]
		if n.Depth > 0 && balance.IsZero() {
			return
		}
		section.Accounts = append(section.Accounts, domain.AccountBalance{
			AccountCode: n.Code,
			AccountName: n.Name,
			Depth:       n.Depth,
			Balance:     balance,
		})
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range tree.RootsOfType(accountType) {
		walk(root)
		section.Total = section.Total.Add(totals[root.Code])
	}
	return section
}

func (s *LedgerQueryService) wrapQueryError(ctx context.Context, err error, report string, keyvals ...any) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
		return err
	}
	s.LogError(ctx, err, "Failed to build "+report, keyvals...)
	return fmt.Errorf("failed to build %s: %w", report, err)
}

func validatePeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.NewValidationError("start and end dates are required")
	}
	if start.After(end) {
		return apperrors.NewValidationError("start date %s is after end date %s", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
