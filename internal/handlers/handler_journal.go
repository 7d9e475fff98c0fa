package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const maxFormMemory = 1 << 20

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// RegisterJournalRoutes registers journal specific routes
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	registerValidators()
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.POST("/form", h.createJournalFromForm)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.PUT("/:id", h.updateDraft)
		journals.POST("/:id/post", h.postJournal)
		journals.POST("/:id/void", h.voidJournal)
		journals.POST("/:id/reverse", h.reverseJournal)
		journals.GET("/:id/audit", h.getAuditTrail)
	}
}

// createJournal godoc
// @Summary Create a draft journal entry
// @Description Validates accounts, line shape and balance, then stores the entry as DRAFT
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Entry header and lines"
// @Success 201 {object} handlers.Response{data=dto.JournalResponse}
// @Failure 400 {object} handlers.Response "Invalid request format"
// @Failure 422 {object} handlers.Response "Unknown account, malformed line or unbalanced entry"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	header, lines, err := req.ToDomain()
	if err != nil {
		respondWithAppError(c, err)
		return
	}

	entry, err := h.journalService.CreateJournal(c.Request.Context(), lc, header, lines)
	if err != nil {
		respondWithAppError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
	)
	respondWithData(c, http.StatusCreated, dto.ToJournalResponse(entry))
}

// createJournalFromForm godoc
// @Summary Create a journal entry from the manual entry form
// @Description Accepts parallel arrays account_code[], debit[], credit[], entry_description[]. status=posted posts the entry after creating it. With redirect_to the response is a 303 back to that path.
// @Tags journals
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Success 201 {object} handlers.Response{data=dto.JournalResponse}
// @Success 303 "Redirect to redirect_to"
// @Failure 400 {object} handlers.Response "Invalid form"
// @Failure 422 {object} handlers.Response "Unknown account, malformed line or unbalanced entry"
// @Security BearerAuth
// @Router /journals/form [post]
func (h *journalHandler) createJournalFromForm(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		respondBindError(c, err)
		return
	}
	form, err := dto.ParseManualEntryForm(c.Request.PostForm)
	if err != nil {
		h.formFailure(c, form, err)
		return
	}
	if err := binding.Validator.ValidateStruct(&form.Request); err != nil {
		if form.RedirectTo != "" {
			redirectWith(c, form.RedirectTo, url.Values{"error": {"VALIDATION_ERROR"}})
			return
		}
		respondBindError(c, err)
		return
	}
	header, lines, err := form.Request.ToDomain()
	if err != nil {
		h.formFailure(c, form, err)
		return
	}

	entry, err := h.journalService.CreateJournal(c.Request.Context(), lc, header, lines)
	if err != nil {
		h.formFailure(c, form, err)
		return
	}
	logger.Info("Journal entry created from form", slog.String("entry_id", entry.EntryID))

	if form.PostNow {
		posted, err := h.journalService.Post(c.Request.Context(), lc, entry.EntryID)
		if err != nil {
			logger.Warn("Entry created but not posted", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
			h.formFailure(c, form, err)
			return
		}
		entry = posted
	}

	if form.RedirectTo != "" {
		redirectWith(c, form.RedirectTo, url.Values{"entry_id": {entry.EntryID}, "entry_number": {entry.EntryNumber}})
		return
	}
	respondWithData(c, http.StatusCreated, dto.ToJournalResponse(entry))
}

// formFailure redirects back to the form when the request asked for it and
// falls back to the JSON envelope otherwise.
func (h *journalHandler) formFailure(c *gin.Context, form *dto.ManualEntryForm, err error) {
	if form == nil || form.RedirectTo == "" {
		respondWithAppError(c, err)
		return
	}
	_, code := classifyError(err)
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Manual entry rejected", slog.String("code", code), slog.String("error", err.Error()))
	redirectWith(c, form.RedirectTo, url.Values{"error": {code}})
}

func redirectWith(c *gin.Context, target string, params url.Values) {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusSeeOther, target+sep+params.Encode())
}

// listJournals godoc
// @Summary List journal entries
// @Description Newest first, keyset paginated
// @Tags journals
// @Produce  json
// @Param   status query string false "DRAFT, POSTED or VOID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} handlers.Response{data=dto.ListJournalsResponse}
// @Failure 400 {object} handlers.Response "Invalid query parameters"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	entries, nextToken, err := h.journalService.ListJournals(c.Request.Context(), lc, params.ToDomain())
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToListJournalsResponse(entries, nextToken))
}

// getJournal godoc
// @Summary Get a journal entry with its lines
// @Tags journals
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} handlers.Response{data=dto.JournalResponse}
// @Failure 404 {object} handlers.Response "Entry not found"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}

	entry, err := h.journalService.GetJournal(c.Request.Context(), lc, c.Param("id"))
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToJournalResponse(entry))
}

// updateDraft godoc
// @Summary Replace a draft entry
// @Description Only DRAFT entries can be edited
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   journal body dto.CreateJournalRequest true "Entry header and lines"
// @Success 200 {object} handlers.Response{data=dto.JournalResponse}
// @Failure 409 {object} handlers.Response "Entry is not a draft"
// @Failure 422 {object} handlers.Response "Unknown account, malformed line or unbalanced entry"
// @Security BearerAuth
// @Router /journals/{id} [put]
func (h *journalHandler) updateDraft(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	header, lines, err := req.ToDomain()
	if err != nil {
		respondWithAppError(c, err)
		return
	}

	entry, err := h.journalService.UpdateDraft(c.Request.Context(), lc, c.Param("id"), header, lines)
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToJournalResponse(entry))
}

// postJournal godoc
// @Summary Post a draft entry
// @Description Posted entries are immutable and count in every report
// @Tags journals
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} handlers.Response{data=dto.JournalResponse}
// @Failure 403 {object} handlers.Response "Forbidden"
// @Failure 404 {object} handlers.Response "Entry not found"
// @Failure 409 {object} handlers.Response "Already posted"
// @Security BearerAuth
// @Router /journals/{id}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	h.transition(c, "posted", h.journalService.Post, http.StatusOK)
}

// voidJournal godoc
// @Summary Void a draft entry
// @Tags journals
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} handlers.Response{data=dto.JournalResponse}
// @Failure 409 {object} handlers.Response "Entry is posted or already void"
// @Security BearerAuth
// @Router /journals/{id}/void [post]
func (h *journalHandler) voidJournal(c *gin.Context) {
	h.transition(c, "voided", h.journalService.Void, http.StatusOK)
}

// reverseJournal godoc
// @Summary Reverse a posted entry
// @Description Creates and posts an entry with debits and credits swapped
// @Tags journals
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 201 {object} handlers.Response{data=dto.JournalResponse} "The reversing entry"
// @Failure 409 {object} handlers.Response "Entry is not posted or already reversed"
// @Security BearerAuth
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	h.transition(c, "reversed", h.journalService.Reverse, http.StatusCreated)
}

type transitionFunc func(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error)

// transition runs one lifecycle step and answers with the resulting entry.
func (h *journalHandler) transition(c *gin.Context, action string, fn transitionFunc, status int) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	entryID := c.Param("id")

	entry, err := fn(c.Request.Context(), lc, entryID)
	if err != nil {
		respondWithAppError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry "+action,
		slog.String("entry_id", entryID),
		slog.String("result_entry_id", entry.EntryID),
	)
	respondWithData(c, status, dto.ToJournalResponse(entry))
}

// getAuditTrail godoc
// @Summary Lifecycle history of an entry
// @Tags journals
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} handlers.Response{data=[]dto.AuditRecordResponse}
// @Failure 404 {object} handlers.Response "Entry not found"
// @Security BearerAuth
// @Router /journals/{id}/audit [get]
func (h *journalHandler) getAuditTrail(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}

	records, err := h.journalService.GetAuditTrail(c.Request.Context(), lc, c.Param("id"))
	if err != nil {
		respondWithAppError(c, err)
		return
	}
	respondWithData(c, http.StatusOK, dto.ToAuditRecordResponses(records))
}
