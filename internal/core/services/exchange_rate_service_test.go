package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	"github.com/vnacct/vnacct/internal/core/services"
	"github.com/vnacct/vnacct/internal/dto"
)

// --- Mock ExchangeRateRepository ---

type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepository = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) SaveRate(ctx context.Context, rate domain.ExchangeRate, source string) error {
	args := m.Called(ctx, rate, source)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindRate(ctx context.Context, currency string, valuationDate time.Time, rateType domain.RateType) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currency, valuationDate, rateType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      *services.ExchangeRateService
	ctx          context.Context
}

func (s *ExchangeRateServiceTestSuite) SetupTest() {
	s.mockRateRepo = new(MockExchangeRateRepository)
	s.service = services.NewExchangeRateService(s.mockRateRepo)
	s.ctx = context.Background()
}

func (s *ExchangeRateServiceTestSuite) TestRecordRateSuccess() {
	valuationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	req := dto.RecordExchangeRateRequest{
		Currency:      "usd",
		Rate:          decimal.NewFromInt(25400),
		ValuationDate: valuationDate,
		Source:        "SBV",
	}

	s.mockRateRepo.On("SaveRate", s.ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.Currency == "USD" &&
			r.RateType == domain.RateRealtime &&
			r.Rate.Equal(decimal.NewFromInt(25400))
	}), "SBV").Return(nil)

	err := s.service.RecordRate(s.ctx, req, "user-1")
	s.NoError(err)
	s.mockRateRepo.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestRecordVNDRateRejected() {
	req := dto.RecordExchangeRateRequest{
		Currency:      "VND",
		Rate:          decimal.NewFromInt(1),
		ValuationDate: time.Now().UTC(),
	}

	err := s.service.RecordRate(s.ctx, req, "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExchangeRateServiceTestSuite) TestRecordNonPositiveRateRejected() {
	req := dto.RecordExchangeRateRequest{
		Currency:      "USD",
		Rate:          decimal.Zero,
		ValuationDate: time.Now().UTC(),
	}

	err := s.service.RecordRate(s.ctx, req, "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExchangeRateServiceTestSuite) TestConvertWithSuppliedRate() {
	rate := decimal.NewFromInt(25400)
	req := dto.ConvertToVNDRequest{
		Currency: "USD",
		Amount:   decimal.NewFromInt(100),
		Rate:     &rate,
	}

	resp, err := s.service.ConvertToVND(s.ctx, req)
	s.Require().NoError(err)
	s.True(resp.VNDAmount.Equal(decimal.NewFromInt(2540000)))
	s.mockRateRepo.AssertNotCalled(s.T(), "FindRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExchangeRateServiceTestSuite) TestConvertWithStoredRate() {
	valuationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	stored := &domain.ExchangeRate{
		Rate:     decimal.NewFromInt(25500),
		Currency: "USD",
		RateType: domain.RateRealtime,
	}
	s.mockRateRepo.On("FindRate", s.ctx, "USD", valuationDate, domain.RateRealtime).Return(stored, nil)

	resp, err := s.service.ConvertToVND(s.ctx, dto.ConvertToVNDRequest{
		Currency:      "usd",
		Amount:        decimal.NewFromInt(10),
		ValuationDate: &valuationDate,
	})
	s.Require().NoError(err)
	s.True(resp.VNDAmount.Equal(decimal.NewFromInt(255000)))
	s.True(resp.Rate.Equal(decimal.NewFromInt(25500)))
}

func (s *ExchangeRateServiceTestSuite) TestConvertVNDIsIdentity() {
	resp, err := s.service.ConvertToVND(s.ctx, dto.ConvertToVNDRequest{
		Currency: "VND",
		Amount:   decimal.NewFromInt(1000),
	})
	s.Require().NoError(err)
	s.True(resp.VNDAmount.Equal(decimal.NewFromInt(1000)))
	s.True(resp.Rate.Equal(decimal.NewFromInt(1)))
}

func (s *ExchangeRateServiceTestSuite) TestConvertWithoutStoredRateFails() {
	valuationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	s.mockRateRepo.On("FindRate", s.ctx, "EUR", valuationDate, domain.RateRealtime).
		Return(nil, apperrors.ErrNotFound)

	_, err := s.service.ConvertToVND(s.ctx, dto.ConvertToVNDRequest{
		Currency:      "EUR",
		Amount:        decimal.NewFromInt(50),
		ValuationDate: &valuationDate,
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ExchangeRateServiceTestSuite) TestRevaluationGainPostsTo4131() {
	resp, err := s.service.RevaluationDifference(s.ctx, dto.RevaluationRequest{
		Currency:     "usd",
		Amount:       decimal.NewFromInt(1000),
		OriginalRate: decimal.NewFromInt(25000),
		CurrentRate:  decimal.NewFromInt(25400),
	})
	s.Require().NoError(err)
	s.True(resp.Difference.Equal(decimal.NewFromInt(400000)))
	s.Equal("4131", resp.AccountCode)
	s.Equal(string(domain.AccountTypeRevenue), resp.AccountType)
}

func (s *ExchangeRateServiceTestSuite) TestRevaluationLossPostsTo4132() {
	resp, err := s.service.RevaluationDifference(s.ctx, dto.RevaluationRequest{
		Currency:     "USD",
		Amount:       decimal.NewFromInt(1000),
		OriginalRate: decimal.NewFromInt(25400),
		CurrentRate:  decimal.NewFromInt(25000),
	})
	s.Require().NoError(err)
	s.True(resp.Difference.Equal(decimal.NewFromInt(-400000)))
	s.Equal("4132", resp.AccountCode)
	s.Equal(string(domain.AccountTypeExpense), resp.AccountType)
}

func (s *ExchangeRateServiceTestSuite) TestRevaluationRejectsVND() {
	_, err := s.service.RevaluationDifference(s.ctx, dto.RevaluationRequest{
		Currency:     "VND",
		Amount:       decimal.NewFromInt(1000),
		OriginalRate: decimal.NewFromInt(1),
		CurrentRate:  decimal.NewFromInt(1),
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExchangeRateServiceTestSuite) TestRevaluationRejectsNonPositiveRates() {
	_, err := s.service.RevaluationDifference(s.ctx, dto.RevaluationRequest{
		Currency:     "USD",
		Amount:       decimal.NewFromInt(1000),
		OriginalRate: decimal.Zero,
		CurrentRate:  decimal.NewFromInt(25000),
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
