package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
)

// FiscalPeriodService locks fiscal periods and cascades the lock onto every
// voucher and journal entry dated inside them.
type FiscalPeriodService struct {
	periodRepo  portsrepo.FiscalPeriodRepository
	voucherRepo portsrepo.VoucherRepository
	journalRepo portsrepo.JournalEntryRepository
	accountRepo portsrepo.AccountReader
	balanceRepo portsrepo.AccountBalanceRepository
	auditSvc    portssvc.AuditSvcFacade
}

// NewFiscalPeriodService creates a new FiscalPeriodService.
func NewFiscalPeriodService(
	periodRepo portsrepo.FiscalPeriodRepository,
	voucherRepo portsrepo.VoucherRepository,
	journalRepo portsrepo.JournalEntryRepository,
	accountRepo portsrepo.AccountReader,
	balanceRepo portsrepo.AccountBalanceRepository,
	auditSvc portssvc.AuditSvcFacade,
) *FiscalPeriodService {
	return &FiscalPeriodService{
		periodRepo:  periodRepo,
		voucherRepo: voucherRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
		auditSvc:    auditSvc,
	}
}

// LockPeriod freezes a fiscal period and everything dated inside it. The
// period record is created on first lock if it does not exist yet. Locking an
// already locked period re-applies the lock to catch stragglers.
func (s *FiscalPeriodService) LockPeriod(ctx context.Context, companyCode string, req dto.LockPeriodRequest, userID string) (*dto.LockPeriodResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	start, end, err := periodBounds(req.PeriodType, req.Year, req.PeriodValue)
	if err != nil {
		return nil, err
	}
	lockType := domain.LockStatusForPeriodType(req.PeriodType)

	period, err := s.periodRepo.FindPeriod(ctx, companyCode, req.PeriodType, req.Year, req.PeriodValue)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to find fiscal period: %w", err)
		}
		now := time.Now().UTC()
		period = &domain.FiscalPeriod{
			PeriodID:    uuid.NewString(),
			CompanyCode: companyCode,
			PeriodType:  req.PeriodType,
			Year:        req.Year,
			PeriodValue: req.PeriodValue,
			StartDate:   start,
			EndDate:     end,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	locked := period.Lock(lockType, userID)
	if err := s.periodRepo.SavePeriod(ctx, locked); err != nil {
		return nil, fmt.Errorf("failed to save locked period: %w", err)
	}

	vouchers, err := s.voucherRepo.ListVouchersInPeriod(ctx, companyCode, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers in period: %w", err)
	}
	vouchersLocked := 0
	for _, voucher := range vouchers {
		if voucher.IsLocked && voucher.LockStatus == lockType {
			continue
		}
		lockedVoucher := voucher.Lock(lockType)
		if err := s.voucherRepo.UpdateVoucher(ctx, lockedVoucher, voucher.Version); err != nil {
			logger.Error("Failed to lock voucher during period lock",
				slog.String("voucher_id", voucher.VoucherID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to lock voucher %s: %w", voucher.VoucherNumber, err)
		}
		vouchersLocked++
	}

	entries, err := s.journalRepo.FindEntriesByPeriod(ctx, companyCode, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries in period: %w", err)
	}
	entriesLocked := 0
	for _, entry := range entries {
		if entry.IsLocked && entry.LockStatus == lockType {
			continue
		}
		lockedEntry := entry.Lock(lockType)
		if err := s.journalRepo.UpdateEntry(ctx, lockedEntry, entry.Version); err != nil {
			logger.Error("Failed to lock entry during period lock",
				slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to lock entry %s: %w", entry.EntryNumber, err)
		}
		entriesLocked++
	}

	if err := s.snapshotBalances(ctx, companyCode, req); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, userID, locked.PeriodID, req, lockType)
	logger.Info("Fiscal period locked",
		slog.String("period_type", req.PeriodType),
		slog.Int("year", req.Year),
		slog.Int("period_value", req.PeriodValue),
		slog.Int("vouchers_locked", vouchersLocked),
		slog.Int("entries_locked", entriesLocked))

	return &dto.LockPeriodResponse{
		PeriodType:     req.PeriodType,
		Year:           req.Year,
		PeriodValue:    req.PeriodValue,
		LockStatus:     string(lockType),
		VouchersLocked: vouchersLocked,
		EntriesLocked:  entriesLocked,
	}, nil
}

// snapshotBalances freezes each account's running balance as the closing
// snapshot of the locked period, split onto the account's normal side.
func (s *FiscalPeriodService) snapshotBalances(ctx context.Context, companyCode string, req dto.LockPeriodRequest) error {
	accounts, err := s.accountRepo.ListAccountsByPattern(ctx, companyCode, "%")
	if err != nil {
		return fmt.Errorf("failed to list accounts for balance snapshot: %w", err)
	}
	for _, account := range accounts {
		if account.CurrentBalance == nil {
			continue
		}
		snapshot := domain.AccountBalance{
			AccountCode: account.Code,
			PeriodType:  req.PeriodType,
			Year:        req.Year,
			PeriodValue: req.PeriodValue,
			CompanyCode: companyCode,
		}
		if account.BalanceDirection == domain.DirectionDebit {
			snapshot.ClosingDebit = account.CurrentBalance
		} else {
			snapshot.ClosingCredit = account.CurrentBalance
		}
		if err := s.balanceRepo.SaveBalance(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to snapshot balance for account %s: %w", account.Code, err)
		}
	}
	return nil
}

// PeriodBalances retrieves the balance snapshots taken when a period was
// locked. An unlocked period has no snapshots.
func (s *FiscalPeriodService) PeriodBalances(ctx context.Context, companyCode, periodType string, year, periodValue int) ([]domain.AccountBalance, error) {
	if _, _, err := periodBounds(periodType, year, periodValue); err != nil {
		return nil, err
	}
	balances, err := s.balanceRepo.ListBalancesForPeriod(ctx, companyCode, periodType, year, periodValue)
	if err != nil {
		return nil, fmt.Errorf("failed to list period balances: %w", err)
	}
	return balances, nil
}

// periodBounds computes the inclusive [start, end] dates of a period.
func periodBounds(periodType string, year, periodValue int) (time.Time, time.Time, error) {
	switch periodType {
	case "MONTH":
		if periodValue < 1 || periodValue > 12 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be 1-12, got %d", apperrors.ErrValidation, periodValue)
		}
		start := time.Date(year, time.Month(periodValue), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond), nil
	case "QUARTER":
		if periodValue < 1 || periodValue > 4 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: quarter must be 1-4, got %d", apperrors.ErrValidation, periodValue)
		}
		start := time.Date(year, time.Month((periodValue-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 3, 0).Add(-time.Nanosecond), nil
	case "YEAR":
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown period type %s", apperrors.ErrValidation, periodType)
	}
}

func (s *FiscalPeriodService) recordAudit(ctx context.Context, userID, periodID string, req dto.LockPeriodRequest, lockType domain.LockStatus) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(ctx, domain.AuditLog{
		UserID:     userID,
		Action:     domain.AuditLock,
		EntityType: "FiscalPeriod",
		EntityID:   periodID,
		NewValue:   fmt.Sprintf("%s %d/%d -> %s", req.PeriodType, req.PeriodValue, req.Year, lockType),
	})
}
