package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// newPgxReportingRepository creates a new repository for report aggregation.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData aggregates debit/credit totals per account over posted
// entries up to the given date. Accounts with no movement still appear with
// zero totals so the trial balance shows the full chart.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, companyCode string, asOf time.Time) ([]portsrepo.TrialBalanceRow, error) {
	query := `
		SELECT a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit_amount), 0) AS total_debit,
		       COALESCE(SUM(l.credit_amount), 0) AS total_credit
		FROM accounts a
		LEFT JOIN journal_entry_lines l ON l.account_code = a.code
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
		     AND e.company_code = a.company_code
		     AND e.is_posted AND e.posting_date <= $2
		WHERE a.company_code = $1
		GROUP BY a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, companyCode, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	var result []portsrepo.TrialBalanceRow
	for rows.Next() {
		var row portsrepo.TrialBalanceRow
		if err := rows.Scan(&row.AccountCode, &row.AccountName, &row.AccountType, &row.TotalDebit, &row.TotalCredit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating trial balance rows: %w", err)
	}
	return result, nil
}

// GetNetBalance returns sum(debit) - sum(credit) over the given account codes
// up to a date.
func (r *PgxReportingRepository) GetNetBalance(ctx context.Context, companyCode string, accountCodes []string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0) - COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_code = $1 AND e.is_posted AND e.posting_date <= $2
		  AND l.account_code = ANY($3);
	`
	var balance decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, companyCode, asOf, accountCodes).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute net balance: %w", err)
	}
	return balance, nil
}

// GetNetCredit returns sum(credit) - sum(debit) over the given account codes
// within a period.
func (r *PgxReportingRepository) GetNetCredit(ctx context.Context, companyCode string, accountCodes []string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.credit_amount), 0) - COALESCE(SUM(l.debit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_code = $1 AND e.is_posted
		  AND e.posting_date >= $2 AND e.posting_date <= $3
		  AND l.account_code = ANY($4);
	`
	var net decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, companyCode, from, to, accountCodes).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute net credit: %w", err)
	}
	return net, nil
}
