package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
	"github.com/vnacct/vnacct/pkg/config"
)

// voucherHandler handles HTTP requests related to accounting vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
	journalService portssvc.JournalSvcFacade
	companyCode    string
}

func newVoucherHandler(vs portssvc.VoucherSvcFacade, js portssvc.JournalSvcFacade, companyCode string) *voucherHandler {
	return &voucherHandler{voucherService: vs, journalService: js, companyCode: companyCode}
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, cfg *config.Config, vs portssvc.VoucherSvcFacade, js portssvc.JournalSvcFacade) {
	h := newVoucherHandler(vs, js, cfg.Company.Code)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.GET("/:id/entries", h.getVoucherEntries)
		vouchers.GET("/:id/balance-check", h.checkBalance)
		vouchers.POST("/:id/sign", h.signVoucher)
		vouchers.POST("/:id/lock", h.lockVoucher)
	}
}

// createVoucher godoc
// @Summary Create an accounting voucher
// @Description Creates a voucher with its journal entry. Lines must balance: total debit must equal total credit.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Validation error or unbalanced lines"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create voucher"
// @Security BearerAuth
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), h.companyCode, req, creatorUserID)
	if err != nil {
		logger.Warn("Failed to create voucher", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to create voucher")
		return
	}

	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List accounting vouchers
// @Description Lists vouchers, newest first, optionally filtered by date range and type
// @Tags vouchers
// @Produce  json
// @Param   startDate query string false "Start date (RFC3339)"
// @Param   endDate query string false "End date (RFC3339)"
// @Param   voucherType query string false "Voucher type code"
// @Param   offset query int false "Offset"
// @Param   limit query int false "Limit (default 50)"
// @Success 200 {array} dto.VoucherResponse
// @Failure 500 {object} map[string]string "Failed to list vouchers"
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	filter := portsrepo.VoucherListFilter{}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate format"})
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate format"})
			return
		}
		filter.EndDate = &t
	}
	if v := c.Query("voucherType"); v != "" {
		vt := domain.VoucherType(v)
		filter.VoucherType = &vt
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	vouchers, err := h.voucherService.ListVouchers(c.Request.Context(), h.companyCode, filter)
	if err != nil {
		respondServiceError(c, err, "Failed to list vouchers")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponses(vouchers))
}

// getVoucher godoc
// @Summary Get a voucher
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// getVoucherEntries godoc
// @Summary Get a voucher's journal entries
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {array} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{id}/entries [get]
func (h *voucherHandler) getVoucherEntries(c *gin.Context) {
	entries, err := h.journalService.GetEntriesByVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve voucher entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponses(entries))
}

// checkBalance godoc
// @Summary Check a voucher's balance
// @Description Reports whether the voucher's entries satisfy total debit = total credit
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.BalanceCheckResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{id}/balance-check [get]
func (h *voucherHandler) checkBalance(c *gin.Context) {
	resp, err := h.voucherService.CheckBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to check voucher balance")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// signVoucher godoc
// @Summary Sign a voucher
// @Description Applies a digital signature. A voucher accepts exactly one signature.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Param   signature body dto.SignVoucherRequest true "Signature details"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} map[string]string "Voucher already signed"
// @Failure 423 {object} map[string]string "Voucher is locked"
// @Security BearerAuth
// @Router /vouchers/{id}/sign [post]
func (h *voucherHandler) signVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SignVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SignVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.SignVoucher(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to sign voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// lockVoucher godoc
// @Summary Lock a voucher
// @Description Freezes the voucher against modification. Locking is monotonic.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Param   lock body dto.LockRequest false "Lock type (defaults to MANUAL)"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{id}/lock [post]
func (h *voucherHandler) lockVoucher(c *gin.Context) {
	var req dto.LockRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	lockType := req.LockType
	if lockType == "" {
		lockType = domain.LockManual
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.LockVoucher(c.Request.Context(), c.Param("id"), lockType, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to lock voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
