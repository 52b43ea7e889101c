package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

const balanceColumns = `account_code, period_type, year, period_value, company_code,
	opening_debit, opening_credit, period_debit, period_credit, closing_debit, closing_credit`

type PgxAccountBalanceRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountBalanceRepository creates a new repository for per-period
// balance snapshots.
func newPgxAccountBalanceRepository(pool *pgxpool.Pool) portsrepo.AccountBalanceRepository {
	return &PgxAccountBalanceRepository{pool: pool}
}

var _ portsrepo.AccountBalanceRepository = (*PgxAccountBalanceRepository)(nil)

func scanBalance(row pgx.Row) (*domain.AccountBalance, error) {
	var b domain.AccountBalance
	var openingDebit, openingCredit, periodDebit, periodCredit, closingDebit, closingCredit decimal.NullDecimal

	err := row.Scan(
		&b.AccountCode,
		&b.PeriodType,
		&b.Year,
		&b.PeriodValue,
		&b.CompanyCode,
		&openingDebit,
		&openingCredit,
		&periodDebit,
		&periodCredit,
		&closingDebit,
		&closingCredit,
	)
	if err != nil {
		return nil, err
	}

	assign := func(d decimal.NullDecimal) *domain.Money {
		if !d.Valid {
			return nil
		}
		m := domain.VND(d.Decimal)
		return &m
	}
	b.OpeningDebit = assign(openingDebit)
	b.OpeningCredit = assign(openingCredit)
	b.PeriodDebit = assign(periodDebit)
	b.PeriodCredit = assign(periodCredit)
	b.ClosingDebit = assign(closingDebit)
	b.ClosingCredit = assign(closingCredit)
	return &b, nil
}

// FindBalance retrieves one account's snapshot for a period.
func (r *PgxAccountBalanceRepository) FindBalance(ctx context.Context, companyCode, accountCode, periodType string, year, periodValue int) (*domain.AccountBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM account_balances
		WHERE company_code = $1 AND account_code = $2 AND period_type = $3 AND year = $4 AND period_value = $5;`
	balance, err := scanBalance(r.pool.QueryRow(ctx, query, companyCode, accountCode, periodType, year, periodValue))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find balance snapshot for %s: %w", accountCode, err)
	}
	return balance, nil
}

// ListBalancesForPeriod retrieves all snapshots of a period.
func (r *PgxAccountBalanceRepository) ListBalancesForPeriod(ctx context.Context, companyCode, periodType string, year, periodValue int) ([]domain.AccountBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM account_balances
		WHERE company_code = $1 AND period_type = $2 AND year = $3 AND period_value = $4
		ORDER BY account_code;`
	rows, err := r.pool.Query(ctx, query, companyCode, periodType, year, periodValue)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance snapshots: %w", err)
	}
	defer rows.Close()

	var balances []domain.AccountBalance
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance snapshot: %w", err)
		}
		balances = append(balances, *balance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating balance snapshots: %w", err)
	}
	return balances, nil
}

// SaveBalance upserts one snapshot.
func (r *PgxAccountBalanceRepository) SaveBalance(ctx context.Context, balance domain.AccountBalance) error {
	query := `
		INSERT INTO account_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (company_code, account_code, period_type, year, period_value)
		DO UPDATE SET opening_debit = EXCLUDED.opening_debit, opening_credit = EXCLUDED.opening_credit,
			period_debit = EXCLUDED.period_debit, period_credit = EXCLUDED.period_credit,
			closing_debit = EXCLUDED.closing_debit, closing_credit = EXCLUDED.closing_credit;
	`
	_, err := r.pool.Exec(ctx, query,
		balance.AccountCode,
		balance.PeriodType,
		balance.Year,
		balance.PeriodValue,
		balance.CompanyCode,
		moneyAmount(balance.OpeningDebit),
		moneyAmount(balance.OpeningCredit),
		moneyAmount(balance.PeriodDebit),
		moneyAmount(balance.PeriodCredit),
		moneyAmount(balance.ClosingDebit),
		moneyAmount(balance.ClosingCredit),
	)
	if err != nil {
		return fmt.Errorf("failed to save balance snapshot for %s: %w", balance.AccountCode, err)
	}
	return nil
}
