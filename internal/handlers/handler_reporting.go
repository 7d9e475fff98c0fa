package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

const csvContentType = "text/csv; charset=utf-8"

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	ledgerService portssvc.LedgerQuerySvc
	exportService portssvc.ReportExportSvc
	now           func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(ls portssvc.LedgerQuerySvc, es portssvc.ReportExportSvc) *reportingHandler {
	return &reportingHandler{
		ledgerService: ls,
		exportService: es,
		now:           time.Now,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerQuerySvc, exportService portssvc.ReportExportSvc) {
	h := newReportingHandler(ledgerService, exportService)

	reports := rg.Group("/reports")
	{
		reports.GET("/general-ledger/:code", h.getGeneralLedger)
		reports.GET("/general-ledger/:code/csv", h.exportGeneralLedger)
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/trial-balance/csv", h.exportTrialBalance)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/income-statement", h.getIncomeStatement)
	}
}

// bindPeriod reads start/end, answering 400 on failure.
func bindPeriod(c *gin.Context) (time.Time, time.Time, bool) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return time.Time{}, time.Time{}, false
	}
	start, end, err := params.Dates()
	if err != nil {
		respondWithAppError(c, err)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// getGeneralLedger godoc
// @Summary General ledger for an account and its descendants
// @Description Opening balance, posted lines with running balance, and closing balance
// @Tags reports
// @Produce json
// @Param code path string true "Account code"
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} handlers.Response{data=dto.GeneralLedgerResponse}
// @Failure 400 {object} handlers.Response "Invalid period"
// @Failure 404 {object} handlers.Response "Account not found"
// @Security BearerAuth
// @Router /reports/general-ledger/{code} [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	start, end, ok := bindPeriod(c)
	if !ok {
		return
	}

	gl, err := h.ledgerService.GeneralLedger(c.Request.Context(), lc, c.Param("code"), start, end)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToGeneralLedgerResponse(gl))
}

// exportGeneralLedger godoc
// @Summary General ledger as CSV
// @Tags reports
// @Produce text/csv
// @Param code path string true "Account code"
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} handlers.Response "Invalid period"
// @Failure 404 {object} handlers.Response "Account not found"
// @Security BearerAuth
// @Router /reports/general-ledger/{code}/csv [get]
func (h *reportingHandler) exportGeneralLedger(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	start, end, ok := bindPeriod(c)
	if !ok {
		return
	}
	code := c.Param("code")

	data, err := h.exportService.ExportGeneralLedgerCSV(c.Request.Context(), lc, code, start, end)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	filename := fmt.Sprintf("general-ledger-%s-%s-%s.csv", code, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	sendCSV(c, filename, data)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Posted debit and credit totals per account over a period
// @Tags reports
// @Produce json
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} handlers.Response{data=dto.TrialBalanceResponse}
// @Failure 400 {object} handlers.Response "Invalid period"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	start, end, ok := bindPeriod(c)
	if !ok {
		return
	}

	tb, err := h.ledgerService.TrialBalance(c.Request.Context(), lc, start, end)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// exportTrialBalance godoc
// @Summary Trial balance as CSV
// @Tags reports
// @Produce text/csv
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} handlers.Response "Invalid period"
// @Security BearerAuth
// @Router /reports/trial-balance/csv [get]
func (h *reportingHandler) exportTrialBalance(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	start, end, ok := bindPeriod(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportTrialBalanceCSV(c.Request.Context(), lc, start, end)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	filename := fmt.Sprintf("trial-balance-%s-%s.csv", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	sendCSV(c, filename, data)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Assets, liabilities and equity from inception through asOf, with current earnings shown under equity
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} handlers.Response{data=dto.BalanceSheetResponse}
// @Failure 400 {object} handlers.Response "Invalid date"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	asOfStr := c.DefaultQuery("asOf", h.now().Format(domain.DateLayout))
	asOf, err := time.Parse(domain.DateLayout, asOfStr)
	if err != nil {
		respondWithAppError(c, apperrors.NewValidationError("asOf must be YYYY-MM-DD"))
		return
	}

	bs, err := h.ledgerService.BalanceSheet(c.Request.Context(), lc, asOf)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToBalanceSheetResponse(bs))
}

// getIncomeStatement godoc
// @Summary Generate income statement report
// @Description Revenue and expense balances over a period, and net income
// @Tags reports
// @Produce json
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} handlers.Response{data=dto.IncomeStatementResponse}
// @Failure 400 {object} handlers.Response "Invalid period"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	start, end, ok := bindPeriod(c)
	if !ok {
		return
	}

	is, err := h.ledgerService.IncomeStatement(c.Request.Context(), lc, start, end)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToIncomeStatementResponse(is))
}

// sendCSV writes a fully rendered file as an attachment.
func sendCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, csvContentType, data)
}
