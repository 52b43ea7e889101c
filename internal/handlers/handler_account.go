package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnacct/vnacct/internal/core/domain"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
	"github.com/vnacct/vnacct/pkg/config"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	journalService portssvc.JournalSvcFacade
	companyCode    string
}

func newAccountHandler(as portssvc.AccountSvcFacade, js portssvc.JournalSvcFacade, companyCode string) *accountHandler {
	return &accountHandler{accountService: as, journalService: js, companyCode: companyCode}
}

// registerAccountRoutes registers routes related to the chart of accounts.
func registerAccountRoutes(rg *gin.RouterGroup, cfg *config.Config, as portssvc.AccountSvcFacade, js portssvc.JournalSvcFacade) {
	h := newAccountHandler(as, js, cfg.Company.Code)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/warnings/negative-balance", h.negativeBalanceWarnings)
		accounts.GET("/:code", h.getAccount)
		accounts.GET("/:code/ledger", h.accountLedger)
	}
}

// createAccount godoc
// @Summary Create an account
// @Description Adds a node to the chart of accounts. The balance direction is derived from the account type and fixed for the account's lifetime.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), h.companyCode, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{code} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByCode(c.Request.Context(), h.companyCode, c.Param("code"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts filtered by type or by a code pattern. Pattern takes precedence when both are given.
// @Tags accounts
// @Produce  json
// @Param   type query string false "Account type (ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE, DIRECT_COST, OTHER_REVENUE, OTHER_EXPENSE)"
// @Param   pattern query string false "Code pattern, e.g. 11%"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Missing type or pattern"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	if pattern := c.Query("pattern"); pattern != "" {
		accounts, err := h.accountService.ListAccountsByPattern(c.Request.Context(), h.companyCode, pattern)
		if err != nil {
			respondServiceError(c, err, "Failed to list accounts")
			return
		}
		c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
		return
	}

	accountType := c.Query("type")
	if accountType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either 'type' or 'pattern' query parameter is required"})
		return
	}
	accounts, err := h.accountService.ListAccountsByType(c.Request.Context(), h.companyCode, domain.AccountType(accountType))
	if err != nil {
		respondServiceError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// accountLedger godoc
// @Summary List journal entries touching an account
// @Description Retrieves every journal entry with at least one line on the account, ordered by posting date
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {array} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{code}/ledger [get]
func (h *accountHandler) accountLedger(c *gin.Context) {
	entries, err := h.journalService.AccountLedger(c.Request.Context(), h.companyCode, c.Param("code"))
	if err != nil {
		respondServiceError(c, err, "Failed to list account entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponses(entries))
}

// negativeBalanceWarnings godoc
// @Summary Check critical accounts for negative balances
// @Description Advisory check over the critical statutory accounts (cash, bank, receivables, inventory, payables). Never blocks posting.
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.NegativeBalanceWarningsResponse
// @Security BearerAuth
// @Router /accounts/warnings/negative-balance [get]
func (h *accountHandler) negativeBalanceWarnings(c *gin.Context) {
	warnings, err := h.accountService.NegativeBalanceWarnings(c.Request.Context(), h.companyCode)
	if err != nil {
		respondServiceError(c, err, "Failed to check account balances")
		return
	}
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(http.StatusOK, dto.NegativeBalanceWarningsResponse{Warnings: warnings})
}
