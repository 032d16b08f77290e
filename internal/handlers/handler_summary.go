package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/dto"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
)

// summaryHandler handles HTTP requests related to periodic summaries.
type summaryHandler struct {
	summaryService portssvc.SummarySvcFacade
}

func newSummaryHandler(ss portssvc.SummarySvcFacade) *summaryHandler {
	return &summaryHandler{summaryService: ss}
}

// RegisterSummaryRoutes registers routes related to summaries.
func RegisterSummaryRoutes(rg *gin.RouterGroup, summaryService portssvc.SummarySvcFacade) {
	h := newSummaryHandler(summaryService)

	summaries := rg.Group("/agents/:agentID/summaries")
	{
		summaries.GET("/daily/:date", h.getDaily)
		summaries.GET("/monthly/:year/:month", h.getMonthly)
		summaries.POST("/rebuild", h.rebuild)
	}
}

// getDaily godoc
// @Summary Get a daily summary
// @Description Returns the roll-up of an agent's posted transactions for one UTC day
// @Tags summaries
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Param   date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} domain.PeriodSummary
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve summary"
// @Security BearerAuth
// @Router /agents/{agentID}/summaries/daily/{date} [get]
func (h *summaryHandler) getDaily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("agent_id", c.Param("agentID")))

	date, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		logger.Warn("Invalid date for daily summary", slog.String("date", c.Param("date")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	summary, err := h.summaryService.GetDailySummary(c.Request.Context(), c.Param("agentID"), date)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getMonthly godoc
// @Summary Get a monthly summary
// @Description Returns the roll-up of an agent's posted transactions for one UTC month
// @Tags summaries
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Param   year path int true "Year"
// @Param   month path int true "Month (1-12)"
// @Success 200 {object} domain.PeriodSummary
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve summary"
// @Security BearerAuth
// @Router /agents/{agentID}/summaries/monthly/{year}/{month} [get]
func (h *summaryHandler) getMonthly(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("agent_id", c.Param("agentID")))

	year, yerr := strconv.Atoi(c.Param("year"))
	month, merr := strconv.Atoi(c.Param("month"))
	if yerr != nil || merr != nil || month < 1 || month > 12 {
		logger.Warn("Invalid period for monthly summary", slog.String("year", c.Param("year")), slog.String("month", c.Param("month")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year or month"})
		return
	}

	summary, err := h.summaryService.GetMonthlySummary(c.Request.Context(), c.Param("agentID"), year, time.Month(month))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// rebuild godoc
// @Summary Rebuild summaries
// @Description Recomputes an agent's summaries for a range of periods from the transaction log
// @Tags summaries
// @Accept  json
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Param   request body dto.RebuildSummaryRequest true "Range to rebuild"
// @Success 200 {object} dto.RebuildSummaryResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Invalid range"
// @Security BearerAuth
// @Router /agents/{agentID}/summaries/rebuild [post]
func (h *summaryHandler) rebuild(c *gin.Context) {
	agentID := c.Param("agentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("agent_id", agentID))

	var req dto.RebuildSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RebuildSummaries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	from, to, err := req.Range()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range: " + err.Error()})
		return
	}

	rebuilt, err := h.summaryService.RebuildRange(c.Request.Context(), []string{agentID}, domain.Granularity(req.Granularity), from, to)
	if err != nil && rebuilt == 0 {
		respondError(c, logger, err, "Failed to rebuild summaries")
		return
	}

	resp := dto.RebuildSummaryResponse{Rebuilt: rebuilt}
	for _, e := range multierr.Errors(err) {
		resp.Errors = append(resp.Errors, e.Error())
	}
	logger.Info("Summaries rebuilt", slog.Int("rebuilt", rebuilt), slog.Int("failed", len(resp.Errors)))
	c.JSON(http.StatusOK, resp)
}
