package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
)

// exchangeRateHandler handles the exchange-rate history and VND conversion.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{rateService: rs}
}

// registerExchangeRateRoutes registers the exchange-rate routes.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rs portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rs)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.recordRate)
		rates.POST("/convert", h.convertToVND)
		rates.POST("/revaluation", h.revaluationDifference)
	}
}

// recordRate godoc
// @Summary Record an exchange rate
// @Description Stores one rate observation for a foreign currency against VND
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.RecordExchangeRateRequest true "Rate observation"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid rate or currency"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) recordRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.rateService.RecordRate(c.Request.Context(), req, userID); err != nil {
		respondServiceError(c, err, "Failed to record exchange rate")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Exchange rate recorded"})
}

// convertToVND godoc
// @Summary Convert a foreign amount to VND
// @Description Converts at the supplied rate, or looks up the most recent stored rate on or before the valuation date
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   request body dto.ConvertToVNDRequest true "Amount, currency and optional rate"
// @Success 200 {object} dto.ConversionResponse
// @Failure 404 {object} map[string]string "No stored rate for the currency"
// @Security BearerAuth
// @Router /exchange-rates/convert [post]
func (h *exchangeRateHandler) convertToVND(c *gin.Context) {
	var req dto.ConvertToVNDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.rateService.ConvertToVND(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// revaluationDifference godoc
// @Summary Compute a period-end revaluation difference
// @Description Revalues a foreign-currency balance from its booked rate to the current rate and names the 413x account the gain or loss posts to
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   request body dto.RevaluationRequest true "Balance, booked rate and current rate"
// @Success 200 {object} dto.RevaluationResponse
// @Failure 400 {object} map[string]string "Invalid currency or rates"
// @Security BearerAuth
// @Router /exchange-rates/revaluation [post]
func (h *exchangeRateHandler) revaluationDifference(c *gin.Context) {
	var req dto.RevaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.rateService.RevaluationDifference(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to compute revaluation difference")
		return
	}
	c.JSON(http.StatusOK, resp)
}
