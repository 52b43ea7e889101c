package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	"github.com/vnacct/vnacct/internal/middleware"
)

// AuditService records and queries the append-only audit trail.
type AuditService struct {
	auditRepo portsrepo.AuditLogRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// Record appends one audit entry, assigning the ID and timestamp. A failed
// append is logged and reported, but the business operation it documents has
// already committed, so callers generally do not roll back on it.
func (s *AuditService) Record(ctx context.Context, entry domain.AuditLog) error {
	if entry.AuditID == "" {
		entry.AuditID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to save audit log",
			slog.String("entity_type", entry.EntityType),
			slog.String("entity_id", entry.EntityID),
			slog.String("action", string(entry.Action)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save audit log: %w", err)
	}
	return nil
}

// List retrieves audit records matching the filter, newest first.
func (s *AuditService) List(ctx context.Context, filter portsrepo.AuditLogFilter) ([]domain.AuditLog, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	logs, err := s.auditRepo.ListAuditLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
