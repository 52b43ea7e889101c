package services

import (
	"context"

	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	"github.com/vnacct/vnacct/internal/dto"
)

// VoucherSvcFacade drives the accounting-voucher lifecycle. Every mutation
// records an audit-trail entry through the audit service.
type VoucherSvcFacade interface {
	// CreateVoucher validates debit=credit over the lines, assigns voucher and
	// entry numbers, and persists the voucher with its journal entry.
	CreateVoucher(ctx context.Context, companyCode string, req dto.CreateVoucherRequest, creatorUserID string) (*domain.AccountingVoucher, error)

	// GetVoucher retrieves one voucher by ID.
	GetVoucher(ctx context.Context, voucherID string) (*domain.AccountingVoucher, error)

	// ListVouchers retrieves vouchers matching the filter.
	ListVouchers(ctx context.Context, companyCode string, filter portsrepo.VoucherListFilter) ([]domain.AccountingVoucher, error)

	// SignVoucher applies a digital signature; a signed voucher rejects a
	// second signature.
	SignVoucher(ctx context.Context, voucherID string, req dto.SignVoucherRequest, userID string) (*domain.AccountingVoucher, error)

	// LockVoucher freezes a voucher against modification.
	LockVoucher(ctx context.Context, voucherID string, lockType domain.LockStatus, userID string) (*domain.AccountingVoucher, error)

	// CheckBalance reports whether the voucher's entries balance.
	CheckBalance(ctx context.Context, voucherID string) (*dto.BalanceCheckResponse, error)
}

// JournalSvcFacade drives the journal-entry lifecycle.
type JournalSvcFacade interface {
	// GetEntriesByVoucher retrieves a voucher's entries.
	GetEntriesByVoucher(ctx context.Context, voucherID string) ([]domain.JournalEntry, error)

	// AccountLedger retrieves all entries touching one account.
	AccountLedger(ctx context.Context, companyCode, accountCode string) ([]domain.JournalEntry, error)

	// PostEntry commits a balanced entry to the ledger and applies the
	// direction-aware balance updates to the affected accounts.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// LockEntry freezes an entry.
	LockEntry(ctx context.Context, entryID string, lockType domain.LockStatus, userID string) (*domain.JournalEntry, error)
}

// PeriodSvcFacade locks fiscal periods and everything dated inside them.
type PeriodSvcFacade interface {
	LockPeriod(ctx context.Context, companyCode string, req dto.LockPeriodRequest, userID string) (*dto.LockPeriodResponse, error)

	// PeriodBalances retrieves the balance snapshots frozen at period lock.
	PeriodBalances(ctx context.Context, companyCode, periodType string, year, periodValue int) ([]domain.AccountBalance, error)
}
