package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/dto"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalReaderSvc
}

func newJournalHandler(js portssvc.JournalReaderSvc) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers the read-only journal routes.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalReaderSvc) {
	h := newJournalHandler(journalService)

	journal := rg.Group("/journal/:referenceID")
	{
		journal.GET("", h.getEntries)
		journal.GET("/verify", h.verify)
	}
}

// getEntries godoc
// @Summary Get journal entries
// @Description Retrieves the journal lines of one reference
// @Tags journal
// @Produce  json
// @Param   referenceID path string true "Journal reference"
// @Success 200 {object} dto.GetJournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reference not found"
// @Security BearerAuth
// @Router /journal/{referenceID} [get]
func (h *journalHandler) getEntries(c *gin.Context) {
	referenceID := c.Param("referenceID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("reference_id", referenceID))

	entries, err := h.journalService.GetEntries(c.Request.Context(), referenceID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.GetJournalResponse{ReferenceID: referenceID, Entries: dto.ToJournalEntryResponses(entries)})
}

// verify godoc
// @Summary Verify a journal reference
// @Description Sums both sides of a reference and reports whether they balance
// @Tags journal
// @Produce  json
// @Param   referenceID path string true "Journal reference"
// @Success 200 {object} domain.DoubleEntryCheck
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reference not found"
// @Security BearerAuth
// @Router /journal/{referenceID}/verify [get]
func (h *journalHandler) verify(c *gin.Context) {
	referenceID := c.Param("referenceID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("reference_id", referenceID))

	check, err := h.journalService.VerifyDoubleEntry(c.Request.Context(), referenceID)
	if err != nil {
		respondError(c, logger, err, "Failed to verify journal")
		return
	}
	if !check.Balanced {
		logger.Error("Journal reference is unbalanced", slog.String("difference", check.Difference.String()))
	}
	c.JSON(http.StatusOK, check)
}
