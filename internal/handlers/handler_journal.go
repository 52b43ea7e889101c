package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnacct/vnacct/internal/core/domain"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
)

// journalHandler handles HTTP requests for journal-entry posting and locking.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, js portssvc.JournalSvcFacade) {
	h := newJournalHandler(js)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/lock", h.lockEntry)
	}
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Commits a balanced entry to the ledger and applies direction-aware balance updates to the affected accounts
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Entry does not balance"
// @Failure 409 {object} map[string]string "Entry already posted"
// @Failure 423 {object} map[string]string "Entry is locked"
// @Security BearerAuth
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		logger.Warn("Failed to post journal entry",
			slog.String("entryID", c.Param("id")),
			slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// lockEntry godoc
// @Summary Lock a journal entry
// @Description Freezes the entry against modification. Locking is monotonic.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   lock body dto.LockRequest false "Lock type (defaults to MANUAL)"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id}/lock [post]
func (h *journalHandler) lockEntry(c *gin.Context) {
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

	entry, err := h.journalService.LockEntry(c.Request.Context(), c.Param("id"), lockType, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to lock journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}
