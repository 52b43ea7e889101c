package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
)

// costingHandler serves the inventory-costing and provision calculators.
// The calculators are pure: they price what the caller supplies and never
// touch stored ledger state.
type costingHandler struct {
	inventoryService portssvc.InventorySvcFacade
	provisionService portssvc.ProvisionSvcFacade
}

func newCostingHandler(is portssvc.InventorySvcFacade, ps portssvc.ProvisionSvcFacade) *costingHandler {
	return &costingHandler{inventoryService: is, provisionService: ps}
}

// registerCostingRoutes registers the costing and provision routes.
func registerCostingRoutes(rg *gin.RouterGroup, is portssvc.InventorySvcFacade, ps portssvc.ProvisionSvcFacade) {
	h := newCostingHandler(is, ps)

	costing := rg.Group("/costing")
	{
		costing.POST("/cogs", h.calculateCOGS)
		costing.POST("/reconciliation", h.reconcile)
	}
	provisions := rg.Group("/provisions")
	{
		provisions.POST("/specific", h.specificProvision)
		provisions.POST("/general", h.generalProvision)
	}
}

// calculateCOGS godoc
// @Summary Calculate cost of goods sold
// @Description Prices the demanded quantities against the supplied lots using FIFO, LIFO or the weighted average. Demand beyond the available lots is costed up to what the lots cover.
// @Tags costing
// @Accept  json
// @Produce  json
// @Param   request body dto.COGSCalculationRequest true "Costing method, demanded goods and available lots"
// @Success 200 {object} dto.COGSCalculationResponse
// @Failure 400 {object} map[string]string "Unknown costing method or invalid quantities"
// @Security BearerAuth
// @Router /costing/cogs [post]
func (h *costingHandler) calculateCOGS(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.COGSCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateCOGS", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.inventoryService.CalculateCOGS(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to calculate cost of goods sold")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reconcile godoc
// @Summary Value a stocktake difference
// @Description Compares actual against book quantity and names the account the difference is parked on (1381 shortage, 3381 surplus)
// @Tags costing
// @Accept  json
// @Produce  json
// @Param   request body dto.ReconciliationRequest true "Stocktake quantities"
// @Success 200 {object} dto.ReconciliationResponse
// @Security BearerAuth
// @Router /costing/reconciliation [post]
func (h *costingHandler) reconcile(c *gin.Context) {
	var req dto.ReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.inventoryService.Reconcile(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to reconcile inventory")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// specificProvision godoc
// @Summary Calculate the specific doubtful-debt provision
// @Description Applies the day-banded provision rates per receivable (0% up to 90 days overdue, 30% to 180, 50% to 365, 100% beyond)
// @Tags provisions
// @Accept  json
// @Produce  json
// @Param   request body dto.SpecificProvisionRequest true "Receivables with their aging"
// @Success 200 {object} dto.ProvisionResponse
// @Security BearerAuth
// @Router /provisions/specific [post]
func (h *costingHandler) specificProvision(c *gin.Context) {
	var req dto.SpecificProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.provisionService.SpecificProvision(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to calculate specific provision")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// generalProvision godoc
// @Summary Calculate the general receivable provision
// @Description Flat 1% of total outstanding receivables
// @Tags provisions
// @Accept  json
// @Produce  json
// @Param   request body dto.GeneralProvisionRequest true "Total receivables"
// @Success 200 {object} dto.ProvisionResponse
// @Security BearerAuth
// @Router /provisions/general [post]
func (h *costingHandler) generalProvision(c *gin.Context) {
	var req dto.GeneralProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.provisionService.GeneralProvision(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to calculate general provision")
		return
	}
	c.JSON(http.StatusOK, resp)
}
