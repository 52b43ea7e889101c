package repositories

import (
	"context"
	"time"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// VoucherListFilter narrows ListVouchers results.
type VoucherListFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	VoucherType *domain.VoucherType
	Offset      int
	Limit       int
}

// VoucherReader defines read operations for accounting vouchers.
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher by its unique identifier.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.AccountingVoucher, error)

	// CountVouchersForDate counts vouchers issued on a voucher date; used by
	// the numbering boundary to build PREFIX/YYYYMMDD/NNN numbers.
	CountVouchersForDate(ctx context.Context, companyCode string, voucherDate time.Time) (int, error)

	// ListVouchers retrieves vouchers matching the filter, newest first.
	ListVouchers(ctx context.Context, companyCode string, filter VoucherListFilter) ([]domain.AccountingVoucher, error)

	// ListVouchersInPeriod retrieves vouchers dated inside [start, end].
	ListVouchersInPeriod(ctx context.Context, companyCode string, start, end time.Time) ([]domain.AccountingVoucher, error)
}

// VoucherWriter defines write operations for accounting vouchers.
type VoucherWriter interface {
	// SaveVoucher persists a voucher together with its journal entries and
	// lines in one database transaction.
	SaveVoucher(ctx context.Context, voucher domain.AccountingVoucher, entries []domain.JournalEntry) error

	// UpdateVoucher persists a lifecycle transition (sign, lock) under an
	// optimistic version check; apperrors.ErrConflict signals a lost race.
	UpdateVoucher(ctx context.Context, voucher domain.AccountingVoucher, expectedVersion int64) error
}

// VoucherRepository combines voucher reads and writes.
type VoucherRepository interface {
	VoucherReader
	VoucherWriter
}
