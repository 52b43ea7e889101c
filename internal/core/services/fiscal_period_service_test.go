package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	"github.com/vnacct/vnacct/internal/core/services"
	"github.com/vnacct/vnacct/internal/dto"
)

// --- Mock FiscalPeriodRepository ---

type MockFiscalPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalPeriodRepository = (*MockFiscalPeriodRepository)(nil)

func (m *MockFiscalPeriodRepository) FindPeriod(ctx context.Context, companyCode, periodType string, year, periodValue int) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyCode, periodType, year, periodValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

// --- Mock AccountBalanceRepository ---

type MockAccountBalanceRepository struct {
	mock.Mock
}

var _ portsrepo.AccountBalanceRepository = (*MockAccountBalanceRepository)(nil)

func (m *MockAccountBalanceRepository) FindBalance(ctx context.Context, companyCode, accountCode, periodType string, year, periodValue int) (*domain.AccountBalance, error) {
	args := m.Called(ctx, companyCode, accountCode, periodType, year, periodValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockAccountBalanceRepository) ListBalancesForPeriod(ctx context.Context, companyCode, periodType string, year, periodValue int) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, companyCode, periodType, year, periodValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

func (m *MockAccountBalanceRepository) SaveBalance(ctx context.Context, balance domain.AccountBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// --- Test Suite ---

type FiscalPeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo  *MockFiscalPeriodRepository
	mockVoucherRepo *MockVoucherRepository
	mockJournalRepo *MockJournalEntryRepository
	mockAccountRepo *MockAccountReader
	mockBalanceRepo *MockAccountBalanceRepository
	mockAudit       *MockAuditService
	service         *services.FiscalPeriodService
	ctx             context.Context
	companyCode     string
}

func (s *FiscalPeriodServiceTestSuite) SetupTest() {
	s.mockPeriodRepo = new(MockFiscalPeriodRepository)
	s.mockVoucherRepo = new(MockVoucherRepository)
	s.mockJournalRepo = new(MockJournalEntryRepository)
	s.mockAccountRepo = new(MockAccountReader)
	s.mockBalanceRepo = new(MockAccountBalanceRepository)
	s.mockAudit = new(MockAuditService)
	s.service = services.NewFiscalPeriodService(
		s.mockPeriodRepo, s.mockVoucherRepo, s.mockJournalRepo,
		s.mockAccountRepo, s.mockBalanceRepo, s.mockAudit,
	)
	s.ctx = context.Background()
	s.companyCode = "C001"
}

func TestFiscalPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FiscalPeriodServiceTestSuite))
}

func (s *FiscalPeriodServiceTestSuite) TestLockMonthSuccess() {
	req := dto.LockPeriodRequest{PeriodType: "MONTH", Year: 2026, PeriodValue: 1}

	s.mockPeriodRepo.On("FindPeriod", s.ctx, s.companyCode, "MONTH", 2026, 1).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockPeriodRepo.On("SavePeriod", s.ctx, mock.MatchedBy(func(p domain.FiscalPeriod) bool {
		return p.IsLocked && p.LockType == domain.LockMonth && p.LockedBy == "user-1"
	})).Return(nil).Once()

	voucher := domain.AccountingVoucher{VoucherID: "v-1", VoucherNumber: "CT/20260110/001", Version: 1}
	s.mockVoucherRepo.On("ListVouchersInPeriod", s.ctx, s.companyCode, mock.Anything, mock.Anything).
		Return([]domain.AccountingVoucher{voucher}, nil).Once()
	s.mockVoucherRepo.On("UpdateVoucher", s.ctx, mock.MatchedBy(func(v domain.AccountingVoucher) bool {
		return v.IsLocked && v.LockStatus == domain.LockMonth
	}), int64(1)).Return(nil).Once()

	entry := domain.JournalEntry{EntryID: "e-1", EntryNumber: "BT/20260110/001", Version: 1}
	s.mockJournalRepo.On("FindEntriesByPeriod", s.ctx, s.companyCode, mock.Anything, mock.Anything).
		Return([]domain.JournalEntry{entry}, nil).Once()
	s.mockJournalRepo.On("UpdateEntry", s.ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.IsLocked && e.LockStatus == domain.LockMonth
	}), int64(1)).Return(nil).Once()

	cash := domain.VND(decimal.NewFromInt(5000000))
	accounts := []domain.Account{
		{Code: "111", BalanceDirection: domain.DirectionDebit, CurrentBalance: &cash},
		{Code: "511", BalanceDirection: domain.DirectionCredit, CurrentBalance: nil},
	}
	s.mockAccountRepo.On("ListAccountsByPattern", s.ctx, s.companyCode, "%").
		Return(accounts, nil).Once()
	s.mockBalanceRepo.On("SaveBalance", s.ctx, mock.MatchedBy(func(b domain.AccountBalance) bool {
		return b.AccountCode == "111" && b.ClosingDebit != nil && b.ClosingCredit == nil
	})).Return(nil).Once()

	s.mockAudit.On("Record", s.ctx, mock.Anything).Return(nil).Once()

	resp, err := s.service.LockPeriod(s.ctx, s.companyCode, req, "user-1")

	s.Require().NoError(err)
	s.Equal("MONTH_LOCKED", resp.LockStatus)
	s.Equal(1, resp.VouchersLocked)
	s.Equal(1, resp.EntriesLocked)
	s.mockPeriodRepo.AssertExpectations(s.T())
	s.mockVoucherRepo.AssertExpectations(s.T())
	s.mockJournalRepo.AssertExpectations(s.T())
	s.mockBalanceRepo.AssertExpectations(s.T())
}

func (s *FiscalPeriodServiceTestSuite) TestLockInvalidMonthFails() {
	req := dto.LockPeriodRequest{PeriodType: "MONTH", Year: 2026, PeriodValue: 13}

	_, err := s.service.LockPeriod(s.ctx, s.companyCode, req, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockPeriodRepo.AssertNotCalled(s.T(), "FindPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *FiscalPeriodServiceTestSuite) TestLockQuarterUsesQuarterBounds() {
	req := dto.LockPeriodRequest{PeriodType: "QUARTER", Year: 2026, PeriodValue: 2}

	s.mockPeriodRepo.On("FindPeriod", s.ctx, s.companyCode, "QUARTER", 2026, 2).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockPeriodRepo.On("SavePeriod", s.ctx, mock.Anything).Return(nil).Once()

	aprilFirst := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	s.mockVoucherRepo.On("ListVouchersInPeriod", s.ctx, s.companyCode, aprilFirst, mock.MatchedBy(func(end time.Time) bool {
		return end.Month() == time.June && end.Day() == 30
	})).Return([]domain.AccountingVoucher{}, nil).Once()
	s.mockJournalRepo.On("FindEntriesByPeriod", s.ctx, s.companyCode, aprilFirst, mock.Anything).
		Return([]domain.JournalEntry{}, nil).Once()
	s.mockAccountRepo.On("ListAccountsByPattern", s.ctx, s.companyCode, "%").
		Return([]domain.Account{}, nil).Once()
	s.mockAudit.On("Record", s.ctx, mock.Anything).Return(nil).Once()

	resp, err := s.service.LockPeriod(s.ctx, s.companyCode, req, "user-1")

	s.Require().NoError(err)
	s.Equal("QUARTER_LOCKED", resp.LockStatus)
	s.mockVoucherRepo.AssertExpectations(s.T())
}

func (s *FiscalPeriodServiceTestSuite) TestRelockSkipsAlreadyLocked() {
	req := dto.LockPeriodRequest{PeriodType: "MONTH", Year: 2026, PeriodValue: 2}

	existing := &domain.FiscalPeriod{
		PeriodID: "p-1", CompanyCode: s.companyCode,
		PeriodType: "MONTH", Year: 2026, PeriodValue: 2,
		IsLocked: true, LockType: domain.LockMonth,
	}
	s.mockPeriodRepo.On("FindPeriod", s.ctx, s.companyCode, "MONTH", 2026, 2).
		Return(existing, nil).Once()
	s.mockPeriodRepo.On("SavePeriod", s.ctx, mock.Anything).Return(nil).Once()

	locked := domain.AccountingVoucher{VoucherID: "v-1", IsLocked: true, LockStatus: domain.LockMonth, Version: 2}
	s.mockVoucherRepo.On("ListVouchersInPeriod", s.ctx, s.companyCode, mock.Anything, mock.Anything).
		Return([]domain.AccountingVoucher{locked}, nil).Once()
	s.mockJournalRepo.On("FindEntriesByPeriod", s.ctx, s.companyCode, mock.Anything, mock.Anything).
		Return([]domain.JournalEntry{}, nil).Once()
	s.mockAccountRepo.On("ListAccountsByPattern", s.ctx, s.companyCode, "%").
		Return([]domain.Account{}, nil).Once()
	s.mockAudit.On("Record", s.ctx, mock.Anything).Return(nil).Once()

	resp, err := s.service.LockPeriod(s.ctx, s.companyCode, req, "user-1")

	s.Require().NoError(err)
	s.Equal(0, resp.VouchersLocked)
	s.mockVoucherRepo.AssertNotCalled(s.T(), "UpdateVoucher", mock.Anything, mock.Anything, mock.Anything)
}

func (s *FiscalPeriodServiceTestSuite) TestPeriodBalances() {
	closing := domain.VND(decimal.NewFromInt(1000000))
	snapshots := []domain.AccountBalance{
		{AccountCode: "111", PeriodType: "MONTH", Year: 2026, PeriodValue: 1, ClosingDebit: &closing},
	}
	s.mockBalanceRepo.On("ListBalancesForPeriod", s.ctx, s.companyCode, "MONTH", 2026, 1).
		Return(snapshots, nil).Once()

	balances, err := s.service.PeriodBalances(s.ctx, s.companyCode, "MONTH", 2026, 1)

	s.Require().NoError(err)
	s.Len(balances, 1)
	assert.Equal(s.T(), "111", balances[0].AccountCode)
}

func (s *FiscalPeriodServiceTestSuite) TestPeriodBalancesInvalidQuarterFails() {
	_, err := s.service.PeriodBalances(s.ctx, s.companyCode, "QUARTER", 2026, 5)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockBalanceRepo.AssertNotCalled(s.T(), "ListBalancesForPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
