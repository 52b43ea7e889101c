package pgsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepository {
	return &PgxAuditRepository{pool: pool}
}

var _ portsrepo.AuditLogRepository = (*PgxAuditRepository)(nil)

// SaveAuditLog appends one record. The table carries no update path.
func (r *PgxAuditRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (audit_id, user_id, action, entity_type, entity_id, old_value, new_value, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		entry.AuditID,
		entry.UserID,
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		nullString(entry.OldValue),
		nullString(entry.NewValue),
		nullString(entry.IPAddress),
		nullString(entry.UserAgent),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// ListAuditLogs retrieves records matching the filter, newest first.
func (r *PgxAuditRepository) ListAuditLogs(ctx context.Context, filter portsrepo.AuditLogFilter) ([]domain.AuditLog, error) {
	query := `
		SELECT audit_id, user_id, action, entity_type, entity_id, old_value, new_value, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE 1=1`
	var args []any
	idx := 1

	if filter.EntityType != "" {
		query += fmt.Sprintf(" AND entity_type = $%d", idx)
		args = append(args, filter.EntityType)
		idx++
	}
	if filter.EntityID != "" {
		query += fmt.Sprintf(" AND entity_id = $%d", idx)
		args = append(args, filter.EntityID)
		idx++
	}
	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, filter.UserID)
		idx++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", idx)
		args = append(args, string(filter.Action))
		idx++
	}
	if filter.StartTime != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filter.StartTime)
		idx++
	}
	if filter.EndTime != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *filter.EndTime)
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d;", idx, idx+1)
	args = append(args, filter.Offset, filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		var oldValue, newValue, ipAddress, userAgent sql.NullString
		err := rows.Scan(
			&entry.AuditID,
			&entry.UserID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&oldValue,
			&newValue,
			&ipAddress,
			&userAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entry.OldValue = oldValue.String
		entry.NewValue = newValue.String
		entry.IPAddress = ipAddress.String
		entry.UserAgent = userAgent.String
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating audit log rows: %w", err)
	}
	return logs, nil
}
