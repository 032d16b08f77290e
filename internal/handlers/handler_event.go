package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/dto"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// eventHandler handles HTTP requests that record ticketing events and read the transaction log.
type eventHandler struct {
	eventService portssvc.EventSvcFacade
}

func newEventHandler(es portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{eventService: es}
}

// RegisterEventRoutes registers routes related to events and transactions.
func RegisterEventRoutes(rg *gin.RouterGroup, eventService portssvc.EventSvcFacade) {
	h := newEventHandler(eventService)

	rg.POST("/events", h.recordEvent)
	rg.GET("/transactions/:transactionNumber", h.getTransaction)
}

// recordEvent godoc
// @Summary Record a ticketing event
// @Description Posts the journal entries of one business event. Replaying a source event id returns the stored transaction.
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.RecordEventRequest true "Event details"
// @Success 201 {object} dto.RecordEventResponse "Posted"
// @Success 200 {object} dto.RecordEventResponse "Already recorded"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} dto.RecordEventResponse "Event rejected and recorded as failed"
// @Failure 503 {object} map[string]string "Storage unavailable, safe to retry"
// @Security BearerAuth
// @Router /events [post]
func (h *eventHandler) recordEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("source_event_id", req.SourceEventID), slog.String("event_type", req.EventType))
	logger.Info("Received request to record event", slog.String("agent_id", req.AgentID))

	result, err := h.eventService.RecordEvent(c.Request.Context(), req.ToEventInput())
	if err != nil {
		if result != nil && errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Event rejected", slog.String("error", err.Error()))
			resp := dto.ToRecordEventResponse(result)
			resp.Error = err.Error()
			c.JSON(http.StatusUnprocessableEntity, resp)
			return
		}
		respondError(c, logger, err, "Failed to record event")
		return
	}

	if result.Duplicate {
		logger.Info("Event already recorded", slog.String("transaction_number", result.Transaction.TransactionNumber))
		c.JSON(http.StatusOK, dto.ToRecordEventResponse(result))
		return
	}

	logger.Info("Event recorded successfully", slog.String("transaction_number", result.Transaction.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToRecordEventResponse(result))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a transaction log row by its transaction number
// @Tags transactions
// @Produce  json
// @Param   transactionNumber path string true "Transaction number"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionNumber} [get]
func (h *eventHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number := c.Param("transactionNumber")
	logger = logger.With(slog.String("transaction_number", number))

	txn, err := h.eventService.GetTransaction(c.Request.Context(), number)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
