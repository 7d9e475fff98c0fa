package handlers

import (
	"log/slog"
	"net/http"
	"sync"

	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// eventHandler turns collaborator events into draft entries over HTTP.
type eventHandler struct {
	eventService portssvc.EventJournalSvc
}

func newEventHandler(es portssvc.EventJournalSvc) *eventHandler {
	return &eventHandler{eventService: es}
}

// RegisterEventRoutes registers the event intake routes.
func RegisterEventRoutes(rg *gin.RouterGroup, eventService portssvc.EventJournalSvc) {
	h := newEventHandler(eventService)

	events := rg.Group("/events")
	{
		events.POST("", h.journalizeEvent)
		events.POST("/batch", h.journalizeBatch)
	}
}

// journalizeEvent godoc
// @Summary Build a draft entry from a collaborator event
// @Description Idempotent per event: a repeated call returns the existing entry with created=false
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.EventRequest true "Event type and reference id"
// @Success 201 {object} handlers.Response{data=dto.EventResponse} "Entry created"
// @Success 200 {object} handlers.Response{data=dto.EventResponse} "Entry already existed"
// @Failure 400 {object} handlers.Response "Invalid event"
// @Failure 404 {object} handlers.Response "Source record not found"
// @Security BearerAuth
// @Router /events [post]
func (h *eventHandler) journalizeEvent(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.eventService.BuildFromEvent(c.Request.Context(), lc, req.ToDomain())
	if err != nil {
		respondWithAppError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	respondWithData(c, status, dto.ToEventResponse(result))
}

// journalizeBatch godoc
// @Summary Build draft entries for several events
// @Description Events are processed independently; one failure does not affect the others
// @Tags events
// @Accept  json
// @Produce  json
// @Param   events body dto.BatchEventRequest true "Events"
// @Success 200 {object} handlers.Response{data=dto.BatchEventResponse}
// @Failure 400 {object} handlers.Response "Invalid request"
// @Security BearerAuth
// @Router /events/batch [post]
func (h *eventHandler) journalizeBatch(c *gin.Context) {
	lc, ok := requireLedgerContext(c)
	if !ok {
		return
	}
	var req dto.BatchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	results := make([]dto.BatchEventResult, len(req.Events))
	var wg sync.WaitGroup
	for i, ev := range req.Events {
		wg.Add(1)
		go func(i int, ev dto.EventRequest) {
			defer wg.Done()
			out := dto.BatchEventResult{Type: ev.Type, ReferenceID: ev.ReferenceID}
			result, err := h.eventService.BuildFromEvent(ctx, lc, ev.ToDomain())
			if err != nil {
				status, code := classifyError(err)
				out.ErrorCode = code
				out.ErrorMessage = err.Error()
				if status == http.StatusInternalServerError {
					logger.Error("Batch event failed", slog.String("reference_id", ev.ReferenceID), slog.String("error", err.Error()))
					out.ErrorMessage = "An internal server error occurred"
				}
			} else {
				out.Created = result.Created
				out.EntryID = &result.Entry.EntryID
				out.EntryNumber = &result.Entry.EntryNumber
			}
			results[i] = out
		}(i, ev)
	}
	wg.Wait()

	resp := dto.BatchEventResponse{Results: results}
	for _, r := range results {
		if r.ErrorCode == "" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	logger.Info("Event batch processed", slog.Int("succeeded", resp.Succeeded), slog.Int("failed", resp.Failed))
	respondWithData(c, http.StatusOK, resp)
}
