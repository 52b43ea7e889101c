package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
	"github.com/vnacct/vnacct/pkg/config"
)

// reportingHandler serves the statutory reports and fiscal-period locking.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	periodService    portssvc.PeriodSvcFacade
	companyCode      string
}

func newReportingHandler(rs portssvc.ReportingSvcFacade, ps portssvc.PeriodSvcFacade, companyCode string) *reportingHandler {
	return &reportingHandler{reportingService: rs, periodService: ps, companyCode: companyCode}
}

// registerReportingRoutes registers the report and period-lock routes.
func registerReportingRoutes(rg *gin.RouterGroup, cfg *config.Config, rs portssvc.ReportingSvcFacade, ps portssvc.PeriodSvcFacade) {
	h := newReportingHandler(rs, ps, cfg.Company.Code)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/cash-flow", h.cashFlow)
	}
	rg.POST("/periods/lock", h.lockPeriod)
	rg.GET("/periods/balances", h.periodBalances)
}

// dateQuery parses a date query parameter, accepting YYYY-MM-DD or RFC3339.
func dateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return fallback, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format, expected YYYY-MM-DD"})
	return time.Time{}, false
}

// trialBalance godoc
// @Summary Trial balance report
// @Description Per-account debit/credit totals from posted entries, with the net balance split into the debit or credit column
// @Tags reports
// @Produce  json
// @Param   periodType query string false "MONTH, QUARTER or YEAR (default MONTH)"
// @Param   year query int true "Fiscal year"
// @Param   periodValue query int false "Month 1-12 or quarter 1-4 (default 1)"
// @Param   asOf query string false "Cut-off date YYYY-MM-DD (default today)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	periodType := c.DefaultQuery("periodType", "MONTH")
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing year"})
		return
	}
	periodValue, _ := strconv.Atoi(c.DefaultQuery("periodValue", "1"))
	asOf, ok := dateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), h.companyCode, periodType, year, periodValue, asOf)
	if err != nil {
		respondServiceError(c, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet (B01a-DNN)
// @Description Statement of financial position as of the report date, rendered as the statutory line map
// @Tags reports
// @Produce  json
// @Param   reportDate query string false "Report date YYYY-MM-DD (default today)"
// @Success 200 {object} dto.FinancialStatementResponse
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	reportDate, ok := dateQuery(c, "reportDate", time.Now())
	if !ok {
		return
	}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), h.companyCode, reportDate)
	if err != nil {
		respondServiceError(c, err, "Failed to build balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

// incomeStatement godoc
// @Summary Income statement (B02-DNN)
// @Description Business result report over the given date range
// @Tags reports
// @Produce  json
// @Param   fromDate query string true "Range start YYYY-MM-DD"
// @Param   toDate query string true "Range end YYYY-MM-DD"
// @Success 200 {object} dto.FinancialStatementResponse
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	from, ok := dateQuery(c, "fromDate", time.Time{})
	if !ok {
		return
	}
	to, ok := dateQuery(c, "toDate", time.Now())
	if !ok {
		return
	}
	report, err := h.reportingService.IncomeStatement(c.Request.Context(), h.companyCode, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to build income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// cashFlow godoc
// @Summary Cash flow statement (B03-DNN)
// @Tags reports
// @Produce  json
// @Param   fromDate query string true "Range start YYYY-MM-DD"
// @Param   toDate query string true "Range end YYYY-MM-DD"
// @Param   method query string false "DIRECT or INDIRECT (default DIRECT)"
// @Success 200 {object} dto.FinancialStatementResponse
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) cashFlow(c *gin.Context) {
	from, ok := dateQuery(c, "fromDate", time.Time{})
	if !ok {
		return
	}
	to, ok := dateQuery(c, "toDate", time.Now())
	if !ok {
		return
	}
	method := c.DefaultQuery("method", "DIRECT")
	report, err := h.reportingService.CashFlow(c.Request.Context(), h.companyCode, from, to, method)
	if err != nil {
		respondServiceError(c, err, "Failed to build cash flow statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// lockPeriod godoc
// @Summary Lock a fiscal period
// @Description Locks every voucher and journal entry dated inside the period. Locking is monotonic and cannot be undone through the API.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   period body dto.LockPeriodRequest true "Period to lock"
// @Success 200 {object} dto.LockPeriodResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /periods/lock [post]
func (h *reportingHandler) lockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LockPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.periodService.LockPeriod(c.Request.Context(), h.companyCode, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to lock period")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// periodBalances godoc
// @Summary List a period's balance snapshots
// @Description Lists the closing balances frozen when the period was locked. An unlocked period has no snapshots.
// @Tags periods
// @Produce  json
// @Param   periodType query string false "MONTH, QUARTER or YEAR (default MONTH)"
// @Param   year query int true "Fiscal year"
// @Param   periodValue query int false "Month 1-12 or quarter 1-4 (default 1)"
// @Success 200 {array} dto.AccountBalanceResponse
// @Security BearerAuth
// @Router /periods/balances [get]
func (h *reportingHandler) periodBalances(c *gin.Context) {
	periodType := c.DefaultQuery("periodType", "MONTH")
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing year"})
		return
	}
	periodValue, _ := strconv.Atoi(c.DefaultQuery("periodValue", "1"))

	balances, err := h.periodService.PeriodBalances(c.Request.Context(), h.companyCode, periodType, year, periodValue)
	if err != nil {
		respondServiceError(c, err, "Failed to list period balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponses(balances))
}
