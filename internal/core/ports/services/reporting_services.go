package services

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// LedgerQuerySvc derives reports from posted entries only.
type LedgerQuerySvc interface {
	GeneralLedger(ctx context.Context, lc domain.LedgerContext, accountCode string, start, end time.Time) (*domain.GeneralLedger, error)
	TrialBalance(ctx context.Context, lc domain.LedgerContext, start, end time.Time) (*domain.TrialBalance, error)
	BalanceSheet(ctx context.Context, lc domain.LedgerContext, asOf time.Time) (*domain.BalanceSheet, error)
	IncomeStatement(ctx context.Context, lc domain.LedgerContext, start, end time.Time) (*domain.IncomeStatement, error)
}

// ReportExportSvc renders reports as CSV. A failed query yields no output.
type ReportExportSvc interface {
	ExportTrialBalanceCSV(ctx context.Context, lc domain.LedgerContext, start, end time.Time) ([]byte, error)
	ExportGeneralLedgerCSV(ctx context.Context, lc domain.LedgerContext, accountCode string, start, end time.Time) ([]byte, error)
	WriteTrialBalanceCSV(w io.Writer, tb *domain.TrialBalance) error
	WriteGeneralLedgerCSV(w io.Writer, gl *domain.GeneralLedger) error
}
