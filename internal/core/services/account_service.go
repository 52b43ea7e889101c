package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
)

// criticalAccountCodes are the statutory accounts checked for negative
// running balances. Warnings on these are advisory and never block posting.
var criticalAccountCodes = []string{
	"111", "112", "131", "138", "151", "152",
	"156", "157", "211", "213", "311", "331",
}

// balanceUpdateRetries bounds optimistic-lock retries when applying postings.
const balanceUpdateRetries = 3

// AccountService manages the chart of accounts and running balances.
type AccountService struct {
	accountRepo portsrepo.AccountRepository
	auditSvc    portssvc.AuditSvcFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository, auditSvc portssvc.AuditSvcFacade) *AccountService {
	return &AccountService{accountRepo: accountRepo, auditSvc: auditSvc}
}

// CreateAccount adds a node to the chart of accounts. The balance direction
// is derived from the account type and never changes afterwards.
func (s *AccountService) CreateAccount(ctx context.Context, companyCode string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.accountRepo.FindAccountByCode(ctx, companyCode, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing account %s: %w", req.Code, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	}

	if req.ParentCode != "" {
		if _, err := s.accountRepo.FindAccountByCode(ctx, companyCode, req.ParentCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, req.ParentCode)
			}
			return nil, fmt.Errorf("failed to check parent account %s: %w", req.ParentCode, err)
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = domain.VNDCode
	}

	now := time.Now().UTC()
	zero := domain.NewMoney(decimal.Zero, currency)
	account := domain.Account{
		AccountID:        uuid.NewString(),
		Code:             req.Code,
		Name:             req.Name,
		AccountType:      req.AccountType,
		CompanyCode:      companyCode,
		ParentCode:       req.ParentCode,
		IsDetail:         req.IsDetail,
		IsActive:         true,
		CurrentBalance:   &zero,
		BalanceDirection: domain.DirectionForType(req.AccountType),
		Currency:         currency,
		Version:          1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account %s: %w", req.Code, err)
	}

	newValue, _ := json.Marshal(account)
	s.recordAudit(ctx, creatorUserID, domain.AuditCreate, "Account", account.AccountID, "", string(newValue))

	logger.Info("Account created", slog.String("code", account.Code), slog.String("type", string(account.AccountType)))
	return &account, nil
}

// GetAccountByCode retrieves one account.
func (s *AccountService) GetAccountByCode(ctx context.Context, companyCode, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyCode, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

// GetAccountsByCodes retrieves several accounts keyed by code.
func (s *AccountService) GetAccountsByCodes(ctx context.Context, companyCode string, codes []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, companyCode, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	return accounts, nil
}

// ListAccountsByType retrieves all accounts of one type.
func (s *AccountService) ListAccountsByType(ctx context.Context, companyCode string, accountType domain.AccountType) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByType(ctx, companyCode, accountType)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by type %s: %w", accountType, err)
	}
	return accounts, nil
}

// ListAccountsByPattern retrieves accounts matching a code pattern.
func (s *AccountService) ListAccountsByPattern(ctx context.Context, companyCode, pattern string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByPattern(ctx, companyCode, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by pattern %s: %w", pattern, err)
	}
	return accounts, nil
}

// ApplyPosting updates one account's running balance with a debit/credit pair.
// Lost optimistic-lock races are retried against a fresh read a few times
// before surfacing apperrors.ErrConflict.
func (s *AccountService) ApplyPosting(ctx context.Context, companyCode, accountCode string, debit, credit domain.Money) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var lastErr error
	for attempt := 0; attempt < balanceUpdateRetries; attempt++ {
		account, err := s.accountRepo.FindAccountByCode(ctx, companyCode, accountCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountCode)
			}
			return nil, fmt.Errorf("failed to find account %s: %w", accountCode, err)
		}

		updated := account.PostBalance(debit, credit)
		err = s.accountRepo.UpdateAccountBalance(ctx, updated, account.Version)
		if err == nil {
			return &updated, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("failed to update balance of account %s: %w", accountCode, err)
		}
		lastErr = err
		logger.Warn("Balance update lost optimistic lock, retrying",
			slog.String("account", accountCode), slog.Int("attempt", attempt+1))
	}
	return nil, fmt.Errorf("balance update for account %s exhausted retries: %w", accountCode, lastErr)
}

// NegativeBalanceWarnings checks the critical statutory accounts for negative
// running balances relative to their normal side. Advisory only.
func (s *AccountService) NegativeBalanceWarnings(ctx context.Context, companyCode string) ([]string, error) {
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, companyCode, criticalAccountCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to load critical accounts: %w", err)
	}

	var warnings []string
	for _, code := range criticalAccountCodes {
		account, ok := accounts[code]
		if !ok || account.CurrentBalance == nil {
			continue
		}
		if account.CurrentBalance.IsNegative() {
			warnings = append(warnings,
				fmt.Sprintf("account %s (%s): negative balance %s", account.Code, account.Name, account.CurrentBalance.Amount.String()))
		}
	}
	return warnings, nil
}

func (s *AccountService) recordAudit(ctx context.Context, userID string, action domain.AuditAction, entityType, entityID, oldValue, newValue string) {
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
