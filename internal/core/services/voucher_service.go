package services

import (
	"context"
	"encoding/json"
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
	"github.com/vnacct/vnacct/internal/utils"
)

// VoucherService drives the accounting-voucher lifecycle.
type VoucherService struct {
	voucherRepo portsrepo.VoucherRepository
	journalRepo portsrepo.JournalEntryReader
	accountRepo portsrepo.AccountReader
	auditSvc    portssvc.AuditSvcFacade
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepository,
	journalRepo portsrepo.JournalEntryReader,
	accountRepo portsrepo.AccountReader,
	auditSvc portssvc.AuditSvcFacade,
) *VoucherService {
	return &VoucherService{
		voucherRepo: voucherRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		auditSvc:    auditSvc,
	}
}

// CreateVoucher validates the lines, assigns CT/YYYYMMDD/NNN numbering, and
// persists the voucher with its journal entry in one transaction. The entry
// is stored balanced but unposted; posting is a separate step.
func (s *VoucherService) CreateVoucher(ctx context.Context, companyCode string, req dto.CreateVoucherRequest, creatorUserID string) (*domain.AccountingVoucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lines, err := s.buildLines(ctx, companyCode, req.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	postingDate := req.VoucherDate
	if req.PostingDate != nil {
		postingDate = *req.PostingDate
	}

	entry := domain.JournalEntry{
		EntryID:           uuid.NewString(),
		CompanyCode:       companyCode,
		VoucherDate:       req.VoucherDate,
		PostingDate:       postingDate,
		Description:       req.Description,
		DescriptionDetail: req.DescriptionDetail,
		Lines:             lines,
		LockStatus:        domain.LockOpen,
		Version:           1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	entry = entry.CalculateTotals()
	if !entry.IsBalanced() {
		return nil, fmt.Errorf("%w: debit=%s credit=%s",
			domain.ErrNotBalanced, entry.TotalDebit.Amount.String(), entry.TotalCredit.Amount.String())
	}

	count, err := s.voucherRepo.CountVouchersForDate(ctx, companyCode, req.VoucherDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count vouchers for numbering: %w", err)
	}
	sequence := count + 1
	entry.EntryNumber = utils.EntryNumber(req.VoucherDate, sequence)

	voucher := domain.AccountingVoucher{
		VoucherID:         uuid.NewString(),
		VoucherNumber:     utils.VoucherNumber(req.VoucherDate, sequence),
		VoucherType:       req.VoucherType,
		VoucherDate:       req.VoucherDate,
		PostingDate:       req.PostingDate,
		Description:       req.Description,
		DescriptionDetail: req.DescriptionDetail,
		DocumentRef:       req.DocumentRef,
		DocumentDate:      req.DocumentDate,
		CompanyCode:       companyCode,
		BranchCode:        req.BranchCode,
		LockStatus:        domain.LockOpen,
		JournalEntryIDs:   []string{entry.EntryID},
		Version:           1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	entry.VoucherID = voucher.VoucherID

	if err := s.voucherRepo.SaveVoucher(ctx, voucher, []domain.JournalEntry{entry}); err != nil {
		logger.Error("Failed to save voucher", slog.String("voucher_number", voucher.VoucherNumber), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}

	newValue, _ := json.Marshal(voucher)
	s.recordAudit(ctx, creatorUserID, domain.AuditCreate, "AccountingVoucher", voucher.VoucherID, "", string(newValue))

	logger.Info("Voucher created",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("voucher_number", voucher.VoucherNumber),
		slog.String("voucher_type", string(voucher.VoucherType)))
	return &voucher, nil
}

// buildLines converts request lines to domain lines after validating that
// every referenced account exists and each line carries debit xor credit.
func (s *VoucherService) buildLines(ctx context.Context, companyCode string, reqLines []dto.CreateVoucherLineRequest) ([]domain.VoucherLineDetail, error) {
	codes := make([]string, 0, len(reqLines))
	seen := make(map[string]struct{}, len(reqLines))
	for _, line := range reqLines {
		if _, ok := seen[line.AccountCode]; !ok {
			seen[line.AccountCode] = struct{}{}
			codes = append(codes, line.AccountCode)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, companyCode, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for voucher lines: %w", err)
	}

	lines := make([]domain.VoucherLineDetail, 0, len(reqLines))
	for i, line := range reqLines {
		account, ok := accounts[line.AccountCode]
		if !ok {
			return nil, fmt.Errorf("%w: line %d references unknown account %s", apperrors.ErrValidation, i+1, line.AccountCode)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: line %d references inactive account %s", apperrors.ErrValidation, i+1, line.AccountCode)
		}
		if line.DebitAmount == nil && line.CreditAmount == nil {
			return nil, fmt.Errorf("%w: line %d has neither debit nor credit amount", apperrors.ErrValidation, i+1)
		}
		if line.DebitAmount != nil && line.CreditAmount != nil {
			return nil, fmt.Errorf("%w: line %d has both debit and credit amounts", apperrors.ErrValidation, i+1)
		}
		if line.DebitAmount != nil && line.DebitAmount.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative debit amount", apperrors.ErrValidation, i+1)
		}
		if line.CreditAmount != nil && line.CreditAmount.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative credit amount", apperrors.ErrValidation, i+1)
		}

		detail := domain.VoucherLineDetail{
			AccountCode:        line.AccountCode,
			CounterpartAccount: line.CounterpartAccount,
			Description:        line.Description,
			Quantity:           line.Quantity,
			TaxCode:            line.TaxCode,
			TaxRate:            line.TaxRate,
			ObjectCode:         line.ObjectCode,
			ContractCode:       line.ContractCode,
		}
		if line.DebitAmount != nil {
			debit := domain.VND(*line.DebitAmount)
			detail.DebitAmount = &debit
		}
		if line.CreditAmount != nil {
			credit := domain.VND(*line.CreditAmount)
			detail.CreditAmount = &credit
		}
		if line.UnitPrice != nil {
			unitPrice := domain.VND(*line.UnitPrice)
			detail.UnitPrice = &unitPrice
		}
		if line.ForeignAmount != nil {
			currency := line.ForeignCurrency
			foreign := domain.NewMoney(*line.ForeignAmount, currency)
			detail.ForeignAmount = &foreign
		}
		if line.ExchangeRate != nil {
			rate := domain.ExchangeRate{
				Rate:     *line.ExchangeRate,
				Currency: line.ForeignCurrency,
				RateType: domain.RateRealtime,
			}
			detail.ExchangeRate = &rate
		}
		lines = append(lines, detail)
	}
	return lines, nil
}

// GetVoucher retrieves one voucher by ID.
func (s *VoucherService) GetVoucher(ctx context.Context, voucherID string) (*domain.AccountingVoucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	return voucher, nil
}

// ListVouchers retrieves vouchers matching the filter.
func (s *VoucherService) ListVouchers(ctx context.Context, companyCode string, filter portsrepo.VoucherListFilter) ([]domain.AccountingVoucher, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 50
	}
	vouchers, err := s.voucherRepo.ListVouchers(ctx, companyCode, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	return vouchers, nil
}

// SignVoucher applies a digital signature. A locked voucher rejects signing
// and a signed voucher rejects a second signature, keeping the first intact.
func (s *VoucherService) SignVoucher(ctx context.Context, voucherID string, req dto.SignVoucherRequest, userID string) (*domain.AccountingVoucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.GetVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if !voucher.CanModify() {
		return nil, fmt.Errorf("%w: voucher %s is locked (%s)", apperrors.ErrLocked, voucher.VoucherNumber, voucher.LockStatus)
	}

	signature := fmt.Sprintf("%s|%s|%s", req.SignerID, req.SignatureProvider, time.Now().UTC().Format(time.RFC3339))
	signed, err := voucher.Sign(req.SignerID, signature)
	if err != nil {
		return nil, err
	}

	if err := s.voucherRepo.UpdateVoucher(ctx, signed, voucher.Version); err != nil {
		logger.Error("Failed to update voucher after signing", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist voucher signature: %w", err)
	}

	s.recordAudit(ctx, userID, domain.AuditSign, "AccountingVoucher", voucherID, "", signature)
	logger.Info("Voucher signed", slog.String("voucher_id", voucherID), slog.String("signer_id", req.SignerID))
	return &signed, nil
}

// LockVoucher freezes a voucher. Locking is monotonic: a second lock simply
// records the new lock type.
func (s *VoucherService) LockVoucher(ctx context.Context, voucherID string, lockType domain.LockStatus, userID string) (*domain.AccountingVoucher, error) {
	voucher, err := s.GetVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	locked := voucher.Lock(lockType)
	if err := s.voucherRepo.UpdateVoucher(ctx, locked, voucher.Version); err != nil {
		return nil, fmt.Errorf("failed to persist voucher lock: %w", err)
	}

	s.recordAudit(ctx, userID, domain.AuditLock, "AccountingVoucher", voucherID, string(voucher.LockStatus), string(lockType))
	middleware.GetLoggerFromCtx(ctx).Info("Voucher locked", slog.String("voucher_id", voucherID), slog.String("lock_type", string(lockType)))
	return &locked, nil
}

// CheckBalance reports whether the voucher's entries balance, with per-entry
// errors for the unbalanced ones.
func (s *VoucherService) CheckBalance(ctx context.Context, voucherID string) (*dto.BalanceCheckResponse, error) {
	voucher, err := s.GetVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	entries, err := s.journalRepo.FindEntriesByVoucher(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries of voucher %s: %w", voucherID, err)
	}

	resp := &dto.BalanceCheckResponse{
		IsBalanced:    true,
		VoucherNumber: voucher.VoucherNumber,
		Errors:        []string{},
	}
	for _, entry := range entries {
		entry = entry.CalculateTotals()
		resp.TotalDebit = resp.TotalDebit.Add(entry.TotalDebit.Amount)
		resp.TotalCredit = resp.TotalCredit.Add(entry.TotalCredit.Amount)
		if !entry.IsBalanced() {
			resp.IsBalanced = false
			resp.Errors = append(resp.Errors,
				fmt.Sprintf("entry %s: debit=%s credit=%s", entry.EntryNumber, entry.TotalDebit.Amount.String(), entry.TotalCredit.Amount.String()))
		}
	}
	resp.Difference = resp.TotalDebit.Sub(resp.TotalCredit)
	return resp, nil
}

func (s *VoucherService) recordAudit(ctx context.Context, userID string, action domain.AuditAction, entityType, entityID, oldValue, newValue string) {
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
