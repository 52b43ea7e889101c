package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

type PgxFiscalPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal periods.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{pool: pool}
}

var _ portsrepo.FiscalPeriodRepository = (*PgxFiscalPeriodRepository)(nil)

// FindPeriod retrieves one period of a company.
func (r *PgxFiscalPeriodRepository) FindPeriod(ctx context.Context, companyCode, periodType string, year, periodValue int) (*domain.FiscalPeriod, error) {
	query := `
		SELECT period_id, company_code, period_type, year, period_value, start_date, end_date,
		       is_locked, lock_type, locked_at, locked_by,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM fiscal_periods
		WHERE company_code = $1 AND period_type = $2 AND year = $3 AND period_value = $4;
	`
	var p domain.FiscalPeriod
	var lockType, lockedBy sql.NullString
	var lockedAt sql.NullTime

	err := r.pool.QueryRow(ctx, query, companyCode, periodType, year, periodValue).Scan(
		&p.PeriodID,
		&p.CompanyCode,
		&p.PeriodType,
		&p.Year,
		&p.PeriodValue,
		&p.StartDate,
		&p.EndDate,
		&p.IsLocked,
		&lockType,
		&lockedAt,
		&lockedBy,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period: %w", err)
	}

	p.LockType = domain.LockStatus(lockType.String)
	p.LockedBy = lockedBy.String
	if lockedAt.Valid {
		p.LockedAt = &lockedAt.Time
	}
	return &p, nil
}

// SavePeriod inserts or updates a period, keyed by its natural identity.
func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		INSERT INTO fiscal_periods (period_id, company_code, period_type, year, period_value, start_date, end_date,
		                            is_locked, lock_type, locked_at, locked_by,
		                            created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (company_code, period_type, year, period_value)
		DO UPDATE SET is_locked = EXCLUDED.is_locked, lock_type = EXCLUDED.lock_type,
		              locked_at = EXCLUDED.locked_at, locked_by = EXCLUDED.locked_by,
		              last_updated_at = NOW();
	`
	_, err := r.pool.Exec(ctx, query,
		period.PeriodID,
		period.CompanyCode,
		period.PeriodType,
		period.Year,
		period.PeriodValue,
		period.StartDate,
		period.EndDate,
		period.IsLocked,
		nullString(string(period.LockType)),
		period.LockedAt,
		nullString(period.LockedBy),
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save fiscal period: %w", err)
	}
	return nil
}
