package repositories

import (
	"context"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByCode retrieves one account by its statutory code.
	FindAccountByCode(ctx context.Context, companyCode, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves several accounts keyed by code.
	FindAccountsByCodes(ctx context.Context, companyCode string, codes []string) (map[string]domain.Account, error)

	// ListAccountsByType retrieves all accounts of one account type.
	ListAccountsByType(ctx context.Context, companyCode string, accountType domain.AccountType) ([]domain.Account, error)

	// ListAccountsByPattern retrieves accounts whose code matches a SQL LIKE
	// pattern, e.g. "156%".
	ListAccountsByPattern(ctx context.Context, companyCode, pattern string) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountBalance persists a direction-aware balance update under an
	// optimistic version check; apperrors.ErrConflict signals a lost race.
	UpdateAccountBalance(ctx context.Context, account domain.Account, expectedVersion int64) error
}

// AccountRepository combines account reads and writes.
type AccountRepository interface {
	AccountReader
	AccountWriter
}

// AccountBalanceRepository stores per-period balance snapshots.
type AccountBalanceRepository interface {
	// FindBalance retrieves one account's snapshot for a period.
	FindBalance(ctx context.Context, companyCode, accountCode, periodType string, year, periodValue int) (*domain.AccountBalance, error)

	// ListBalancesForPeriod retrieves all snapshots of a period.
	ListBalancesForPeriod(ctx context.Context, companyCode, periodType string, year, periodValue int) ([]domain.AccountBalance, error)

	// SaveBalance upserts one snapshot. Re-locking a period overwrites the
	// snapshot taken at the previous lock.
	SaveBalance(ctx context.Context, balance domain.AccountBalance) error
}
