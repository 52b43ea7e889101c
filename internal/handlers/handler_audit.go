package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
)

// auditHandler serves the read side of the audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: as}
}

// registerAuditRoutes registers the audit-trail routes.
func registerAuditRoutes(rg *gin.RouterGroup, as portssvc.AuditSvcFacade) {
	h := newAuditHandler(as)
	rg.GET("/audit-logs", h.listAuditLogs)
}

// listAuditLogs godoc
// @Summary List audit-trail records
// @Description Lists audit records newest first, optionally filtered by entity, user, action and time range
// @Tags audit
// @Produce  json
// @Param   entityType query string false "Entity type (VOUCHER, JOURNAL_ENTRY, ACCOUNT, USER, PERIOD, EXCHANGE_RATE)"
// @Param   entityID query string false "Entity ID"
// @Param   userID query string false "Acting user ID"
// @Param   action query string false "Action (CREATE, UPDATE, SIGN, POST, LOCK, LOGIN, LOGIN_FAILED)"
// @Param   startTime query string false "Range start (RFC3339)"
// @Param   endTime query string false "Range end (RFC3339)"
// @Param   offset query int false "Offset"
// @Param   limit query int false "Limit (default 100, max 500)"
// @Success 200 {array} dto.AuditLogResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *auditHandler) listAuditLogs(c *gin.Context) {
	filter := portsrepo.AuditLogFilter{
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityID"),
		UserID:     c.Query("userID"),
		Action:     domain.AuditAction(c.Query("action")),
	}
	if v := c.Query("startTime"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startTime format"})
			return
		}
		filter.StartTime = &t
	}
	if v := c.Query("endTime"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endTime format"})
			return
		}
		filter.EndTime = &t
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditLogResponses(logs))
}
