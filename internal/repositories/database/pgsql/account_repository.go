package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

const accountColumns = `account_id, company_code, code, name, account_type, parent_code,
	is_detail, is_active, is_system, opening_debit, opening_credit, current_balance,
	balance_direction, currency, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var parentCode sql.NullString
	var openingDebit, openingCredit, currentBalance decimal.NullDecimal

	err := row.Scan(
		&a.AccountID,
		&a.CompanyCode,
		&a.Code,
		&a.Name,
		&a.AccountType,
		&parentCode,
		&a.IsDetail,
		&a.IsActive,
		&a.IsSystem,
		&openingDebit,
		&openingCredit,
		&currentBalance,
		&a.BalanceDirection,
		&a.Currency,
		&a.Version,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	a.ParentCode = parentCode.String
	if openingDebit.Valid {
		m := domain.NewMoney(openingDebit.Decimal, a.Currency)
		a.OpeningDebit = &m
	}
	if openingCredit.Valid {
		m := domain.NewMoney(openingCredit.Decimal, a.Currency)
		a.OpeningCredit = &m
	}
	if currentBalance.Valid {
		m := domain.NewMoney(currentBalance.Decimal, a.Currency)
		a.CurrentBalance = &m
	}
	return &a, nil
}

// FindAccountByCode retrieves one account by its statutory code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, companyCode, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_code = $1 AND code = $2;`
	account, err := scanAccount(r.pool.QueryRow(ctx, query, companyCode, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

// FindAccountsByCodes retrieves several accounts keyed by code.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, companyCode string, codes []string) (map[string]domain.Account, error) {
	if len(codes) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_code = $1 AND code = ANY($2);`
	rows, err := r.pool.Query(ctx, query, companyCode, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by codes: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[account.Code] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccountsByType retrieves all accounts of one account type.
func (r *PgxAccountRepository) ListAccountsByType(ctx context.Context, companyCode string, accountType domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_code = $1 AND account_type = $2 ORDER BY code;`
	return r.listAccounts(ctx, query, companyCode, string(accountType))
}

// ListAccountsByPattern retrieves accounts whose code matches a LIKE pattern.
func (r *PgxAccountRepository) ListAccountsByPattern(ctx context.Context, companyCode, pattern string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_code = $1 AND code LIKE $2 ORDER BY code;`
	return r.listAccounts(ctx, query, companyCode, pattern)
}

func (r *PgxAccountRepository) listAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	var parentCode sql.NullString
	if account.ParentCode != "" {
		parentCode = sql.NullString{String: account.ParentCode, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.CompanyCode,
		account.Code,
		account.Name,
		string(account.AccountType),
		parentCode,
		account.IsDetail,
		account.IsActive,
		account.IsSystem,
		moneyAmount(account.OpeningDebit),
		moneyAmount(account.OpeningCredit),
		moneyAmount(account.CurrentBalance),
		string(account.BalanceDirection),
		account.Currency,
		account.Version,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", account.Code, err)
	}
	return nil
}

// UpdateAccountBalance persists a balance update under an optimistic version
// check. A zero-row update means another writer won the race.
func (r *PgxAccountRepository) UpdateAccountBalance(ctx context.Context, account domain.Account, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET current_balance = $1, version = $2, last_updated_at = NOW()
		WHERE account_id = $3 AND version = $4;
	`
	tag, err := r.pool.Exec(ctx, query,
		moneyAmount(account.CurrentBalance),
		account.Version,
		account.AccountID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", account.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s at version %d", apperrors.ErrConflict, account.Code, expectedVersion)
	}
	return nil
}

// moneyAmount unwraps an optional Money into a nullable numeric parameter.
func moneyAmount(m *domain.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: m.Amount, Valid: true}
}
