package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listActiveAccounts)
		accounts.GET("/tree", h.getHierarchy)
		accounts.GET("/search", h.searchAccounts)
		accounts.GET("/:code", h.getAccount)
		accounts.PUT("/:code/active", h.setAccountActive)
	}
}

// getHierarchy godoc
// @Summary Get the chart of accounts
// @Description Returns the account tree grouped by type: assets, liabilities, equity, revenue, expenses
// @Tags accounts
// @Produce  json
// @Success 200 {object} handlers.Response{data=[]dto.AccountNodeResponse}
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 500 {object} handlers.Response "Failed to load chart"
// @Security BearerAuth
// @Router /accounts/tree [get]
func (h *accountHandler) getHierarchy(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}

	roots, err := h.accountService.GetHierarchy(c.Request.Context(), lc)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToAccountTreeResponse(roots))
}

// listActiveAccounts godoc
// @Summary List postable accounts
// @Description Returns active accounts ordered by code
// @Tags accounts
// @Produce  json
// @Success 200 {object} handlers.Response{data=[]dto.AccountResponse}
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 500 {object} handlers.Response "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listActiveAccounts(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.GetActiveAccounts(c.Request.Context(), lc)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToAccountResponses(accounts))
}

// searchAccounts godoc
// @Summary Search active accounts
// @Description Case-insensitive match on code or name
// @Tags accounts
// @Produce  json
// @Param   q query string true "Search text"
// @Success 200 {object} handlers.Response{data=[]dto.AccountResponse}
// @Failure 400 {object} handlers.Response "Missing query"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Security BearerAuth
// @Router /accounts/search [get]
func (h *accountHandler) searchAccounts(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	var params dto.SearchAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.accountService.Search(c.Request.Context(), lc, params.Query)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToAccountResponses(accounts))
}

// getAccount godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} handlers.Response{data=dto.AccountResponse}
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 404 {object} handlers.Response "Account not found"
// @Security BearerAuth
// @Router /accounts/{code} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}

	account, err := h.accountService.FindByCode(c.Request.Context(), lc, c.Param("code"))
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToAccountResponse(account))
}

// setAccountActive godoc
// @Summary Activate or deactivate an account
// @Description Inactive accounts reject new journal lines; history is unaffected
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   code path string true "Account code"
// @Param   body body dto.SetAccountActiveRequest true "Desired state"
// @Success 200 {object} handlers.Response{data=dto.AccountResponse}
// @Failure 400 {object} handlers.Response "Invalid input"
// @Failure 403 {object} handlers.Response "Forbidden"
// @Failure 404 {object} handlers.Response "Account not found"
// @Security BearerAuth
// @Router /accounts/{code}/active [put]
func (h *accountHandler) setAccountActive(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	var req dto.SetAccountActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	code := c.Param("code")
	account, err := h.accountService.SetActive(c.Request.Context(), lc, code, *req.Active)
	if err != nil {
		respondWithAppError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account state changed",
		slog.String("account_code", code),
		slog.Bool("active", *req.Active),
	)
	respondWithData(c, http.StatusOK, dto.ToAccountResponse(account))
}
