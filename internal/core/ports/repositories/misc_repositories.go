package repositories

import (
	"context"
	"time"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// ExchangeRateRepository stores the exchange-rate history (Circular 99/2025
// Art. 31).
type ExchangeRateRepository interface {
	// SaveRate records one rate observation.
	SaveRate(ctx context.Context, rate domain.ExchangeRate, source string) error

	// FindRate retrieves the rate for a currency on (or latest before) a date.
	FindRate(ctx context.Context, currency string, valuationDate time.Time, rateType domain.RateType) (*domain.ExchangeRate, error)
}

// AuditLogFilter narrows audit-trail queries.
type AuditLogFilter struct {
	EntityType string
	EntityID   string
	UserID     string
	Action     domain.AuditAction
	StartTime  *time.Time
	EndTime    *time.Time
	Offset     int
	Limit      int
}

// AuditLogRepository stores the append-only audit trail.
type AuditLogRepository interface {
	// SaveAuditLog appends one record. Audit records are never updated.
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error

	// ListAuditLogs retrieves records matching the filter, newest first.
	ListAuditLogs(ctx context.Context, filter AuditLogFilter) ([]domain.AuditLog, error)
}

// UserRepository stores operator accounts.
type UserRepository interface {
	// FindUserByUsername retrieves one user for authentication.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// SaveUser inserts a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUserLoginState persists lockout counters and last-login time.
	UpdateUserLoginState(ctx context.Context, user domain.User) error
}

// FiscalPeriodRepository stores accounting periods.
type FiscalPeriodRepository interface {
	// FindPeriod retrieves one period of a company.
	FindPeriod(ctx context.Context, companyCode, periodType string, year, periodValue int) (*domain.FiscalPeriod, error)

	// SavePeriod inserts or updates a period.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error
}
