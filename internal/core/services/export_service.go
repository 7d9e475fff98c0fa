package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var (
	trialBalanceCSVHeader  = []string{"Account Code", "Account Name", "Debit", "Credit", "Balance"}
	generalLedgerCSVHeader = []string{"Date", "Reference", "Description", "Debit", "Credit", "Balance"}
)

// ReportExportService renders ledger reports as CSV.
type ReportExportService struct {
	BaseService
	ledger portssvc.LedgerQuerySvc
}

// NewReportExportService creates an exporter backed by ledger queries.
func NewReportExportService(ledger portssvc.LedgerQuerySvc) *ReportExportService {
	return &ReportExportService{ledger: ledger}
}

var _ portssvc.ReportExportSvc = (*ReportExportService)(nil)

// ExportTrialBalanceCSV runs the trial balance and renders it. Nothing is
// returned unless the whole file rendered.
func (s *ReportExportService) ExportTrialBalanceCSV(ctx context.Context, lc domain.LedgerContext, start, end time.Time) ([]byte, error) {
	tb, err := s.ledger.TrialBalance(ctx, lc, start, end)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.WriteTrialBalanceCSV(&buf, tb); err != nil {
		s.LogError(ctx, err, "Failed to render trial balance CSV")
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportGeneralLedgerCSV runs the general ledger for one account and renders it.
func (s *ReportExportService) ExportGeneralLedgerCSV(ctx context.Context, lc domain.LedgerContext, accountCode string, start, end time.Time) ([]byte, error) {
	gl, err := s.ledger.GeneralLedger(ctx, lc, accountCode, start, end)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.WriteGeneralLedgerCSV(&buf, gl); err != nil {
		s.LogError(ctx, err, "Failed to render general ledger CSV")
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTrialBalanceCSV writes one row per account with activity.
func (s *ReportExportService) WriteTrialBalanceCSV(w io.Writer, tb *domain.TrialBalance) error {
	rows := make([][]string, 0, len(tb.Rows)+1)
	rows = append(rows, trialBalanceCSVHeader)
	for _, r := range tb.Rows {
		rows = append(rows, []string{
			csvText(r.AccountCode),
			csvText(r.AccountName),
			money(r.TotalDebit),
			money(r.TotalCredit),
			money(r.Balance),
		})
	}
	return writeCSV(w, rows)
}

// WriteGeneralLedgerCSV writes one row per posted line. The opening balance
// is only part of the JSON report; the first row's running balance already
// includes it.
func (s *ReportExportService) WriteGeneralLedgerCSV(w io.Writer, gl *domain.GeneralLedger) error {
	rows := make([][]string, 0, len(gl.Lines)+1)
	rows = append(rows, generalLedgerCSVHeader)
	for _, l := range gl.Lines {
		reference := l.EntryNumber
		if l.Reference != "" {
			reference = l.Reference
		}
		rows = append(rows, []string{
			l.Date.Format(domain.DateLayout),
			csvText(reference),
			csvText(l.Description),
			money(l.Debit),
			money(l.Credit),
			money(l.Balance),
		})
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.AmountScale)
}

// csvText keeps free text from being read as a formula by spreadsheets.
func csvText(v string) string {
	if v != "" && strings.ContainsRune("=+-@", rune(v[0])) {
		return "'" + v
	}
	return v
}
