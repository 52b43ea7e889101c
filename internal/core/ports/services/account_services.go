package services

import (
	"context"
	"time"

	"github.com/vnacct/vnacct/internal/core/domain"
	"github.com/vnacct/vnacct/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	// CreateAccount adds a node; balance direction is derived from the
	// account type and fixed for the account's lifetime.
	CreateAccount(ctx context.Context, companyCode string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByCode retrieves one account.
	GetAccountByCode(ctx context.Context, companyCode, code string) (*domain.Account, error)

	// GetAccountsByCodes retrieves several accounts keyed by code.
	GetAccountsByCodes(ctx context.Context, companyCode string, codes []string) (map[string]domain.Account, error)

	// ListAccountsByType retrieves all accounts of one type.
	ListAccountsByType(ctx context.Context, companyCode string, accountType domain.AccountType) ([]domain.Account, error)

	// ListAccountsByPattern retrieves accounts matching a code pattern.
	ListAccountsByPattern(ctx context.Context, companyCode, pattern string) ([]domain.Account, error)

	// ApplyPosting updates one account's running balance with a debit/credit
	// pair under an optimistic version check.
	ApplyPosting(ctx context.Context, companyCode, accountCode string, debit, credit domain.Money) (*domain.Account, error)

	// NegativeBalanceWarnings checks the critical statutory accounts for
	// negative running balances. Advisory, never blocking.
	NegativeBalanceWarnings(ctx context.Context, companyCode string) ([]string, error)
}

// ReportingSvcFacade derives the statutory financial statements from posted
// entries.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, companyCode, periodType string, year, periodValue int, asOf time.Time) (*dto.TrialBalanceResponse, error)
	BalanceSheet(ctx context.Context, companyCode string, reportDate time.Time) (*dto.FinancialStatementResponse, error)
	IncomeStatement(ctx context.Context, companyCode string, from, to time.Time) (*dto.FinancialStatementResponse, error)
	CashFlow(ctx context.Context, companyCode string, from, to time.Time, method string) (*dto.FinancialStatementResponse, error)
}
