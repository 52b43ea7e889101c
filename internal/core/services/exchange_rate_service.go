package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
)

// ExchangeRateService manages the exchange-rate history and VND conversion.
type ExchangeRateService struct {
	rateRepo portsrepo.ExchangeRateRepository
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepository) *ExchangeRateService {
	return &ExchangeRateService{rateRepo: rateRepo}
}

// RecordRate stores one rate observation for a currency and valuation date.
func (s *ExchangeRateService) RecordRate(ctx context.Context, req dto.RecordExchangeRateRequest, userID string) error {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	currency := strings.ToUpper(req.Currency)
	if currency == domain.VNDCode {
		return fmt.Errorf("%w: cannot record a rate for the reporting currency", apperrors.ErrValidation)
	}
	rateType := req.RateType
	if rateType == "" {
		rateType = domain.RateRealtime
	}

	valuationDate := req.ValuationDate
	rate := domain.ExchangeRate{
		Rate:          req.Rate,
		Currency:      currency,
		RateType:      rateType,
		ValuationDate: &valuationDate,
	}
	if err := s.rateRepo.SaveRate(ctx, rate, req.Source); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to save exchange rate",
			slog.String("currency", currency), slog.String("error", err.Error()))
		return fmt.Errorf("failed to save exchange rate: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Exchange rate recorded",
		slog.String("currency", currency),
		slog.String("rate", req.Rate.String()),
		slog.String("rate_type", string(rateType)))
	return nil
}

// ConvertToVND converts a foreign amount at the supplied rate, or at the
// stored rate for the valuation date when none is supplied.
func (s *ExchangeRateService) ConvertToVND(ctx context.Context, req dto.ConvertToVNDRequest) (*dto.ConversionResponse, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == domain.VNDCode {
		return &dto.ConversionResponse{
			Currency:  currency,
			Amount:    req.Amount,
			Rate:      decimal.NewFromInt(1),
			VNDAmount: req.Amount,
		}, nil
	}

	var rate domain.ExchangeRate
	if req.Rate != nil {
		if req.Rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
		}
		rate = domain.ExchangeRate{Rate: *req.Rate, Currency: currency, RateType: domain.RateRealtime}
	} else {
		valuationDate := time.Now().UTC()
		if req.ValuationDate != nil {
			valuationDate = *req.ValuationDate
		}
		stored, err := s.rateRepo.FindRate(ctx, currency, valuationDate, domain.RateRealtime)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no exchange rate recorded for %s", apperrors.ErrNotFound, currency)
			}
			return nil, fmt.Errorf("failed to find exchange rate for %s: %w", currency, err)
		}
		rate = *stored
	}

	converted := rate.ToVND(req.Amount)
	return &dto.ConversionResponse{
		Currency:  currency,
		Amount:    req.Amount,
		Rate:      rate.Rate,
		VNDAmount: converted.Amount,
	}, nil
}

// RevaluationDifference computes the VND gain or loss when a foreign-currency
// balance booked at one rate is revalued at the current rate, and names the
// 413x account the difference posts to.
func (s *ExchangeRateService) RevaluationDifference(ctx context.Context, req dto.RevaluationRequest) (*dto.RevaluationResponse, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == domain.VNDCode {
		return nil, fmt.Errorf("%w: the reporting currency is not revalued", apperrors.ErrValidation)
	}
	if req.OriginalRate.LessThanOrEqual(decimal.Zero) || req.CurrentRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rates must be positive", apperrors.ErrValidation)
	}

	original := domain.ExchangeRate{Rate: req.OriginalRate, Currency: currency, RateType: domain.RateRealtime}
	current := domain.ExchangeRate{Rate: req.CurrentRate, Currency: currency, RateType: domain.RateRealtime}
	diff := domain.ExchangeDiff(original, current, req.Amount)
	accountCode, accountType := domain.ClassifyExchangeDiff(diff)

	middleware.GetLoggerFromCtx(ctx).Info("Revaluation difference computed",
		slog.String("currency", currency),
		slog.String("difference", diff.Amount.String()),
		slog.String("account_code", accountCode))

	return &dto.RevaluationResponse{
		Currency:    currency,
		Amount:      req.Amount,
		Difference:  diff.Amount,
		AccountCode: accountCode,
		AccountType: string(accountType),
	}, nil
}
