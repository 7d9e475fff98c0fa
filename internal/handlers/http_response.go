package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Response represents the standard API envelope.
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMapping is checked in order; the first sentinel matched wins.
var errorMapping = []struct {
	sentinel error
	status   int
	code     string
}{
	{apperrors.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{apperrors.ErrAccountNotFound, http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND"},
	{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{apperrors.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
	{apperrors.ErrAlreadyPosted, http.StatusConflict, "ALREADY_POSTED"},
	{apperrors.ErrConflict, http.StatusConflict, "CONFLICT"},
	{apperrors.ErrMalformedLine, http.StatusUnprocessableEntity, "MALFORMED_LINE"},
	{apperrors.ErrUnbalancedEntry, http.StatusUnprocessableEntity, "UNBALANCED_ENTRY"},
}

// classifyError maps err to an HTTP status and envelope code.
func classifyError(err error) (int, string) {
	for _, m := range errorMapping {
		if errors.Is(err, m.sentinel) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
}

// respondWithData sends a JSON response with data
func respondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Data: data, CorrelationID: middleware.GetCorrelationID(c)})
}

// respondWithError sends a JSON response with an error
func respondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// respondWithAppError maps a service error onto the envelope. Internal
// failures are logged and their details are not sent to the client.
func respondWithAppError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, code := classifyError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
		respondWithError(c, status, code, "An internal server error occurred")
		return
	}
	logger.Warn("Request rejected", slog.String("code", code), slog.String("error", err.Error()))
	respondWithError(c, status, code, err.Error())
}

// respondBindError answers 400 for a request that failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	respondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request: "+err.Error())
}

// requireLedgerContext extracts the tenant/actor scope or answers 401.
func requireLedgerContext(c *gin.Context) (domain.LedgerContext, bool) {
	lc, ok := middleware.GetLedgerContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Tenant or actor missing from context")
		respondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return domain.LedgerContext{}, false
	}
	return lc, true
}
