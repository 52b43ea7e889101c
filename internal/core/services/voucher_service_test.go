package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
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

// --- Mock VoucherRepository ---

type MockVoucherRepository struct {
	mock.Mock
}

var _ portsrepo.VoucherRepository = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.AccountingVoucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingVoucher), args.Error(1)
}

func (m *MockVoucherRepository) CountVouchersForDate(ctx context.Context, companyCode string, voucherDate time.Time) (int, error) {
	args := m.Called(ctx, companyCode, voucherDate)
	return args.Int(0), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context, companyCode string, filter portsrepo.VoucherListFilter) ([]domain.AccountingVoucher, error) {
	args := m.Called(ctx, companyCode, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingVoucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersInPeriod(ctx context.Context, companyCode string, start, end time.Time) ([]domain.AccountingVoucher, error) {
	args := m.Called(ctx, companyCode, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingVoucher), args.Error(1)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.AccountingVoucher, entries []domain.JournalEntry) error {
	args := m.Called(ctx, voucher, entries)
	return args.Error(0)
}

func (m *MockVoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.AccountingVoucher, expectedVersion int64) error {
	args := m.Called(ctx, voucher, expectedVersion)
	return args.Error(0)
}

// --- Mock JournalEntryReader ---

type MockJournalEntryReader struct {
	mock.Mock
}

var _ portsrepo.JournalEntryReader = (*MockJournalEntryReader)(nil)

func (m *MockJournalEntryReader) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryReader) FindEntriesByVoucher(ctx context.Context, voucherID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryReader) FindEntriesByPeriod(ctx context.Context, companyCode string, start, end time.Time) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, companyCode, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryReader) FindEntriesByAccount(ctx context.Context, companyCode, accountCode string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, companyCode, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

// --- Mock AccountReader ---

type MockAccountReader struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountReader)(nil)

func (m *MockAccountReader) FindAccountByCode(ctx context.Context, companyCode, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyCode, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountsByCodes(ctx context.Context, companyCode string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyCode, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccountsByType(ctx context.Context, companyCode string, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, companyCode, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccountsByPattern(ctx context.Context, companyCode, pattern string) ([]domain.Account, error) {
	args := m.Called(ctx, companyCode, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock AuditService ---

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, entry domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditService) List(ctx context.Context, filter portsrepo.AuditLogFilter) ([]domain.AuditLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

// --- Suite ---

type VoucherServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	mockJournalRepo *MockJournalEntryReader
	mockAccountRepo *MockAccountReader
	mockAuditSvc    *MockAuditService
	service         *services.VoucherService
	companyCode     string
	userID          string
	accounts        map[string]domain.Account
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockJournalRepo = new(MockJournalEntryReader)
	suite.mockAccountRepo = new(MockAccountReader)
	suite.mockAuditSvc = new(MockAuditService)
	suite.service = services.NewVoucherService(suite.mockVoucherRepo, suite.mockJournalRepo, suite.mockAccountRepo, suite.mockAuditSvc)

	suite.companyCode = "C001"
	suite.userID = uuid.NewString()
	suite.accounts = map[string]domain.Account{
		"111": {Code: "111", Name: "Tiền mặt", AccountType: domain.AccountTypeAsset, IsActive: true, BalanceDirection: domain.DirectionDebit},
		"511": {Code: "511", Name: "Doanh thu", AccountType: domain.AccountTypeRevenue, IsActive: true, BalanceDirection: domain.DirectionCredit},
	}
}

func (suite *VoucherServiceTestSuite) balancedRequest() dto.CreateVoucherRequest {
	debit := decimal.NewFromInt(11000000)
	credit := decimal.NewFromInt(11000000)
	return dto.CreateVoucherRequest{
		VoucherType: domain.VoucherThu,
		VoucherDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Thu tiền bán hàng",
		Lines: []dto.CreateVoucherLineRequest{
			{AccountCode: "111", DebitAmount: &debit},
			{AccountCode: "511", CreditAmount: &credit},
		},
	}
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherSuccess() {
	req := suite.balancedRequest()

	suite.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, suite.companyCode, []string{"111", "511"}).Return(suite.accounts, nil)
	suite.mockVoucherRepo.On("CountVouchersForDate", mock.Anything, suite.companyCode, req.VoucherDate).Return(6, nil)
	suite.mockVoucherRepo.On("SaveVoucher", mock.Anything, mock.AnythingOfType("domain.AccountingVoucher"), mock.AnythingOfType("[]domain.JournalEntry")).Return(nil)
	suite.mockAuditSvc.On("Record", mock.Anything, mock.AnythingOfType("domain.AuditLog")).Return(nil)

	voucher, err := suite.service.CreateVoucher(context.Background(), suite.companyCode, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher)
	suite.Equal("CT/20260115/007", voucher.VoucherNumber)
	suite.Equal(domain.VoucherThu, voucher.VoucherType)
	suite.Equal(domain.LockOpen, voucher.LockStatus)
	suite.False(voucher.IsSigned)
	suite.Len(voucher.JournalEntryIDs, 1)

	savedEntries := suite.mockVoucherRepo.Calls[1].Arguments.Get(2).([]domain.JournalEntry)
	suite.Require().Len(savedEntries, 1)
	suite.Equal("BT/20260115/007", savedEntries[0].EntryNumber)
	suite.True(savedEntries[0].IsBalanced())
	suite.False(savedEntries[0].IsPosted)

	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherUnbalancedFails() {
	req := suite.balancedRequest()
	smaller := decimal.NewFromInt(10000000)
	req.Lines[1].CreditAmount = &smaller

	suite.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, suite.companyCode, []string{"111", "511"}).Return(suite.accounts, nil)

	voucher, err := suite.service.CreateVoucher(context.Background(), suite.companyCode, req, suite.userID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, domain.ErrNotBalanced))
	suite.Nil(voucher)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherUnknownAccountFails() {
	req := suite.balancedRequest()
	req.Lines[1].AccountCode = "999"

	// Only the cash account resolves.
	partial := map[string]domain.Account{"111": suite.accounts["111"]}
	suite.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, suite.companyCode, []string{"111", "999"}).Return(partial, nil)

	voucher, err := suite.service.CreateVoucher(context.Background(), suite.companyCode, req, suite.userID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Nil(voucher)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherLineWithBothSidesFails() {
	req := suite.balancedRequest()
	both := decimal.NewFromInt(1000)
	req.Lines[0].CreditAmount = &both

	suite.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, suite.companyCode, []string{"111", "511"}).Return(suite.accounts, nil)

	_, err := suite.service.CreateVoucher(context.Background(), suite.companyCode, req, suite.userID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *VoucherServiceTestSuite) TestSignVoucherSuccess() {
	voucherID := uuid.NewString()
	voucher := &domain.AccountingVoucher{
		VoucherID:     voucherID,
		VoucherNumber: "CT/20260115/001",
		LockStatus:    domain.LockOpen,
		Version:       1,
	}
	suite.mockVoucherRepo.On("FindVoucherByID", mock.Anything, voucherID).Return(voucher, nil)
	suite.mockVoucherRepo.On("UpdateVoucher", mock.Anything, mock.AnythingOfType("domain.AccountingVoucher"), int64(1)).Return(nil)
	suite.mockAuditSvc.On("Record", mock.Anything, mock.AnythingOfType("domain.AuditLog")).Return(nil)

	signed, err := suite.service.SignVoucher(context.Background(), voucherID, dto.SignVoucherRequest{SignerID: "signer-1"}, suite.userID)

	suite.Require().NoError(err)
	suite.True(signed.IsSigned)
	suite.Equal("signer-1", signed.SignerID)
	suite.NotNil(signed.SignedAt)
	suite.Equal(int64(2), signed.Version)
}

func (suite *VoucherServiceTestSuite) TestSignVoucherTwiceFails() {
	voucherID := uuid.NewString()
	signedAt := time.Now().UTC()
	voucher := &domain.AccountingVoucher{
		VoucherID:     voucherID,
		VoucherNumber: "CT/20260115/001",
		IsSigned:      true,
		SignedAt:      &signedAt,
		SignerID:      "first-signer",
		Version:       2,
	}
	suite.mockVoucherRepo.On("FindVoucherByID", mock.Anything, voucherID).Return(voucher, nil)

	_, err := suite.service.SignVoucher(context.Background(), voucherID, dto.SignVoucherRequest{SignerID: "second-signer"}, suite.userID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, domain.ErrAlreadySigned))
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "UpdateVoucher", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestSignLockedVoucherFails() {
	voucherID := uuid.NewString()
	voucher := &domain.AccountingVoucher{
		VoucherID:  voucherID,
		IsLocked:   true,
		LockStatus: domain.LockMonth,
		Version:    3,
	}
	suite.mockVoucherRepo.On("FindVoucherByID", mock.Anything, voucherID).Return(voucher, nil)

	_, err := suite.service.SignVoucher(context.Background(), voucherID, dto.SignVoucherRequest{SignerID: "signer-1"}, suite.userID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrLocked))
}

func (suite *VoucherServiceTestSuite) TestLockVoucher() {
	voucherID := uuid.NewString()
	voucher := &domain.AccountingVoucher{VoucherID: voucherID, LockStatus: domain.LockOpen, Version: 1}
	suite.mockVoucherRepo.On("FindVoucherByID", mock.Anything, voucherID).Return(voucher, nil)
	suite.mockVoucherRepo.On("UpdateVoucher", mock.Anything, mock.AnythingOfType("domain.AccountingVoucher"), int64(1)).Return(nil)
	suite.mockAuditSvc.On("Record", mock.Anything, mock.AnythingOfType("domain.AuditLog")).Return(nil)

	locked, err := suite.service.LockVoucher(context.Background(), voucherID, domain.LockMonth, suite.userID)

	suite.Require().NoError(err)
	suite.True(locked.IsLocked)
	suite.Equal(domain.LockMonth, locked.LockStatus)
	suite.False(locked.CanModify())
}

func (suite *VoucherServiceTestSuite) TestGetVoucherNotFound() {
	voucherID := uuid.NewString()
	suite.mockVoucherRepo.On("FindVoucherByID", mock.Anything, voucherID).Return(nil, apperrors.ErrNotFound)

	voucher, err := suite.service.GetVoucher(context.Background(), voucherID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.Nil(voucher)
}

func (suite *VoucherServiceTestSuite) TestCheckBalanceUnbalancedEntry() {
	voucherID := uuid.NewString()
	voucher := &domain.AccountingVoucher{VoucherID: voucherID, VoucherNumber: "CT/20260115/002"}
	debit := domain.VND(decimal.NewFromInt(500))
	credit := domain.VND(decimal.NewFromInt(300))
	entries := []domain.JournalEntry{{
		EntryNumber: "BT/20260115/002",
		Lines: []domain.VoucherLineDetail{
			{AccountCode: "111", DebitAmount: &debit},
			{AccountCode: "511", CreditAmount: &credit},
		},
	}}
	suite.mockVoucherRepo.On("FindVoucherByID", mock.Anything, voucherID).Return(voucher, nil)
	suite.mockJournalRepo.On("FindEntriesByVoucher", mock.Anything, voucherID).Return(entries, nil)

	resp, err := suite.service.CheckBalance(context.Background(), voucherID)

	suite.Require().NoError(err)
	suite.False(resp.IsBalanced)
	suite.Equal("500", resp.TotalDebit.String())
	suite.Equal("300", resp.TotalCredit.String())
	suite.Equal("200", resp.Difference.String())
	suite.Len(resp.Errors, 1)
}

func TestVoucherService(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}

func TestVoucherServiceAuditFailureDoesNotFailCreate(t *testing.T) {
	mockVoucherRepo := new(MockVoucherRepository)
	mockJournalRepo := new(MockJournalEntryReader)
	mockAccountRepo := new(MockAccountReader)
	mockAuditSvc := new(MockAuditService)
	service := services.NewVoucherService(mockVoucherRepo, mockJournalRepo, mockAccountRepo, mockAuditSvc)

	debit := decimal.NewFromInt(1000)
	credit := decimal.NewFromInt(1000)
	req := dto.CreateVoucherRequest{
		VoucherType: domain.VoucherChi,
		VoucherDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Description: "Chi tiền mua hàng",
		Lines: []dto.CreateVoucherLineRequest{
			{AccountCode: "156", DebitAmount: &debit},
			{AccountCode: "111", CreditAmount: &credit},
		},
	}
	accounts := map[string]domain.Account{
		"156": {Code: "156", IsActive: true},
		"111": {Code: "111", IsActive: true},
	}
	mockAccountRepo.On("FindAccountsByCodes", mock.Anything, "C001", []string{"156", "111"}).Return(accounts, nil)
	mockVoucherRepo.On("CountVouchersForDate", mock.Anything, "C001", req.VoucherDate).Return(0, nil)
	mockVoucherRepo.On("SaveVoucher", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockAuditSvc.On("Record", mock.Anything, mock.Anything).Return(errors.New("audit store down"))

	voucher, err := service.CreateVoucher(context.Background(), "C001", req, uuid.NewString())

	assert.NoError(t, err)
	assert.NotNil(t, voucher)
	assert.Equal(t, "CT/20260201/001", voucher.VoucherNumber)
}
