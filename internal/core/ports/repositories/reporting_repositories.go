package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's aggregated movement in a trial balance.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}

// ReportingRepository aggregates posted journal-entry lines for the financial
// statements. Aggregation belongs to this boundary, not the domain core.
type ReportingRepository interface {
	// GetTrialBalanceData aggregates debit/credit totals per account.
	GetTrialBalanceData(ctx context.Context, companyCode string, asOf time.Time) ([]TrialBalanceRow, error)

	// GetNetBalance returns sum(debit) - sum(credit) over the given account
	// codes up to a date. Balance-sheet items read this way.
	GetNetBalance(ctx context.Context, companyCode string, accountCodes []string, asOf time.Time) (decimal.Decimal, error)

	// GetNetCredit returns sum(credit) - sum(debit) over the given account
	// codes within a period. Income-statement items read this way.
	GetNetCredit(ctx context.Context, companyCode string, accountCodes []string, from, to time.Time) (decimal.Decimal, error)
}
