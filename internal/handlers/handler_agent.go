package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/dto"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// agentHandler handles HTTP requests related to agent balances and credit.
type agentHandler struct {
	ledgerService portssvc.AgentLedgerSvcFacade
	eventService  portssvc.TransactionReaderSvc
}

func newAgentHandler(ls portssvc.AgentLedgerSvcFacade, es portssvc.TransactionReaderSvc) *agentHandler {
	return &agentHandler{ledgerService: ls, eventService: es}
}

// RegisterAgentRoutes registers routes related to agents.
func RegisterAgentRoutes(rg *gin.RouterGroup, ledgerService portssvc.AgentLedgerSvcFacade, eventService portssvc.TransactionReaderSvc) {
	h := newAgentHandler(ledgerService, eventService)

	agents := rg.Group("/agents/:agentID")
	{
		agents.GET("/balance", h.getBalance)
		agents.GET("/outstanding", h.getOutstanding)
		agents.GET("/credit-check", h.checkCredit)
		agents.GET("/transactions", h.listTransactions)
		agents.PUT("/credit-limit", h.setCreditLimit)
	}
}

// getBalance godoc
// @Summary Get an agent's balance
// @Description Returns the running balance, outstanding receivable and available credit of an agent
// @Tags agents
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Success 200 {object} domain.AgentBalance
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Agent has no ledger"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /agents/{agentID}/balance [get]
func (h *agentHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("agent_id", c.Param("agentID")))

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), c.Param("agentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getOutstanding godoc
// @Summary Get an agent's aged receivables
// @Description Returns the open receivable items of an agent grouped into aging buckets
// @Tags agents
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Success 200 {object} domain.OutstandingDetail
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Agent has no ledger"
// @Failure 500 {object} map[string]string "Failed to retrieve outstanding detail"
// @Security BearerAuth
// @Router /agents/{agentID}/outstanding [get]
func (h *agentHandler) getOutstanding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("agent_id", c.Param("agentID")))

	detail, err := h.ledgerService.GetOutstandingDetail(c.Request.Context(), c.Param("agentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve outstanding detail")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// checkCredit godoc
// @Summary Check an agent's credit
// @Description Reports whether the agent's available credit covers an amount. It reserves nothing.
// @Tags agents
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Param   amount query string true "Amount to check"
// @Success 200 {object} domain.CreditCheck
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Amount must be positive"
// @Security BearerAuth
// @Router /agents/{agentID}/credit-check [get]
func (h *agentHandler) checkCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("agent_id", c.Param("agentID")))

	var params dto.CreditCheckParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for CheckCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		logger.Warn("Invalid amount for CheckCredit", slog.String("amount", params.Amount))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + params.Amount})
		return
	}

	check, err := h.ledgerService.CheckCredit(c.Request.Context(), c.Param("agentID"), amount)
	if err != nil {
		respondError(c, logger, err, "Failed to check credit")
		return
	}
	c.JSON(http.StatusOK, check)
}

// listTransactions godoc
// @Summary List an agent's transactions
// @Description Retrieves a page of an agent's transaction log rows, newest first
// @Tags agents
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /agents/{agentID}/transactions [get]
func (h *agentHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("agent_id", c.Param("agentID")))

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, next, err := h.eventService.ListAgentTransactions(c.Request.Context(), c.Param("agentID"), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	logger.Debug("Transactions listed", slog.Int("count", len(txns)))
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    next,
	})
}

// setCreditLimit godoc
// @Summary Set an agent's credit limit
// @Description Changes the credit limit of an agent, creating its ledger when absent
// @Tags agents
// @Accept  json
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Param   limit body dto.SetCreditLimitRequest true "New credit limit"
// @Success 200 {object} domain.AgentBalance
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Negative limit"
// @Security BearerAuth
// @Router /agents/{agentID}/credit-limit [put]
func (h *agentHandler) setCreditLimit(c *gin.Context) {
	agentID := c.Param("agentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("agent_id", agentID))

	var req dto.SetCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetCreditLimit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.ledgerService.SetCreditLimit(c.Request.Context(), agentID, req.CreditLimit)
	if err != nil {
		respondError(c, logger, err, "Failed to set credit limit")
		return
	}

	logger.Info("Credit limit updated", slog.String("credit_limit", account.CreditLimit.String()))
	balance, err := h.ledgerService.GetBalance(c.Request.Context(), agentID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}
