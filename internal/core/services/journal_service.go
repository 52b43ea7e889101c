package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/middleware"
)

// JournalService drives the journal-entry lifecycle. Posting an entry is the
// only path that moves account balances.
type JournalService struct {
	journalRepo portsrepo.JournalEntryRepository
	accountSvc  portssvc.AccountSvcFacade
	auditSvc    portssvc.AuditSvcFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalEntryRepository,
	accountSvc portssvc.AccountSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		auditSvc:    auditSvc,
	}
}

// GetEntriesByVoucher retrieves a voucher's entries.
func (s *JournalService) GetEntriesByVoucher(ctx context.Context, voucherID string) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.FindEntriesByVoucher(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entries of voucher %s: %w", voucherID, err)
	}
	return entries, nil
}

// AccountLedger retrieves every entry with at least one line on the given
// account, ordered by posting date. The account must exist.
func (s *JournalService) AccountLedger(ctx context.Context, companyCode, accountCode string) ([]domain.JournalEntry, error) {
	if _, err := s.accountSvc.GetAccountByCode(ctx, companyCode, accountCode); err != nil {
		return nil, err
	}
	entries, err := s.journalRepo.FindEntriesByAccount(ctx, companyCode, accountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find entries for account %s: %w", accountCode, err)
	}
	return entries, nil
}

// PostEntry commits a balanced entry to the ledger. The entry's lines are
// aggregated per account and applied as direction-aware balance updates.
// An unbalanced entry fails with domain.ErrNotBalanced, a repeat post with
// domain.ErrAlreadyPosted, and a locked entry with apperrors.ErrLocked.
func (s *JournalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.IsLocked {
		return nil, fmt.Errorf("%w: journal entry %s is locked (%s)", apperrors.ErrLocked, entry.EntryNumber, entry.LockStatus)
	}

	recalculated := entry.CalculateTotals()
	posted, err := recalculated.Post(userID)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.UpdateEntry(ctx, posted, entry.Version); err != nil {
		logger.Error("Failed to persist posted entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist posted entry %s: %w", entryID, err)
	}

	// Aggregate per account so each account receives one balance update.
	type movement struct {
		debit  decimal.Decimal
		credit decimal.Decimal
	}
	movements := make(map[string]*movement)
	order := make([]string, 0, len(posted.Lines))
	for _, line := range posted.Lines {
		m, ok := movements[line.AccountCode]
		if !ok {
			m = &movement{}
			movements[line.AccountCode] = m
			order = append(order, line.AccountCode)
		}
		if line.DebitAmount != nil {
			m.debit = m.debit.Add(line.DebitAmount.Amount)
		}
		if line.CreditAmount != nil {
			m.credit = m.credit.Add(line.CreditAmount.Amount)
		}
	}

	for _, code := range order {
		m := movements[code]
		if _, err := s.accountSvc.ApplyPosting(ctx, posted.CompanyCode, code, domain.VND(m.debit), domain.VND(m.credit)); err != nil {
			logger.Error("Failed to apply posting to account",
				slog.String("entry_id", entryID), slog.String("account", code), slog.String("error", err.Error()))
			return nil, fmt.Errorf("entry %s posted but balance update for account %s failed: %w", posted.EntryNumber, code, err)
		}
	}

	s.recordAudit(ctx, userID, domain.AuditPost, "JournalEntry", entryID, "", posted.EntryNumber)
	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", posted.EntryNumber),
		slog.String("total_debit", posted.TotalDebit.Amount.String()))
	return &posted, nil
}

// LockEntry freezes an entry.
func (s *JournalService) LockEntry(ctx context.Context, entryID string, lockType domain.LockStatus, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	locked := entry.Lock(lockType)
	if err := s.journalRepo.UpdateEntry(ctx, locked, entry.Version); err != nil {
		return nil, fmt.Errorf("failed to persist entry lock: %w", err)
	}

	s.recordAudit(ctx, userID, domain.AuditLock, "JournalEntry", entryID, string(entry.LockStatus), string(lockType))
	return &locked, nil
}

func (s *JournalService) recordAudit(ctx context.Context, userID string, action domain.AuditAction, entityType, entityID, oldValue, newValue string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(ctx, domain.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
}
