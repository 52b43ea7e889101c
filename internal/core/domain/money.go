package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned when arithmetic is attempted between two
// Money values carrying different currency codes. Callers must convert first.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// VNDCode is the statutory reporting currency.
const VNDCode = "VND"

// Money is an exact decimal amount tagged with a currency code.
// It is immutable; every operation returns a new value. Negative amounts are
// permitted since reversing entries and contra-accounts need them.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney builds a Money value. An empty currency defaults to VND.
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = VNDCode
	}
	return Money{Amount: amount, Currency: currency}
}

// VND builds a Money value in the reporting currency.
func VND(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: VNDCode}
}

// ZeroVND returns a zero amount in the reporting currency.
func ZeroVND() Money {
	return Money{Amount: decimal.Zero, Currency: VNDCode}
}

// Add returns the sum of m and other. It fails with ErrCurrencyMismatch when
// the currency codes differ.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns the difference of m and other. It fails with ErrCurrencyMismatch
// when the currency codes differ.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// RateType classifies how an exchange rate was sourced.
type RateType string

const (
	RateRealtime RateType = "REALTIME"
	RateAverage  RateType = "AVERAGE"
)

// ExchangeRate is a conversion rate into VND for one foreign currency
// (Circular 99/2025 Art. 31). It carries no lifecycle of its own.
type ExchangeRate struct {
	Rate          decimal.Decimal `json:"rate"`
	Currency      string          `json:"currency"`
	RateType      RateType        `json:"rateType"`
	ValuationDate *time.Time      `json:"valuationDate,omitempty"`
}

// ToVND converts a foreign-currency amount to VND by multiplication.
// This is the conversion entry point, so no currency check is performed.
func (r ExchangeRate) ToVND(amount decimal.Decimal) Money {
	return VND(amount.Mul(r.Rate))
}

// ExchangeDiff computes the revaluation difference in VND between the rate an
// amount was originally booked at and the current rate.
func ExchangeDiff(original, current ExchangeRate, amount decimal.Decimal) Money {
	originalVND := amount.Mul(original.Rate)
	currentVND := amount.Mul(current.Rate)
	return VND(currentVND.Sub(originalVND))
}

// ClassifyExchangeDiff maps a revaluation difference to the account that
// absorbs it: 4131 (gain) or 4132 (loss).
func ClassifyExchangeDiff(diff Money) (accountCode string, kind AccountType) {
	if diff.Amount.IsPositive() {
		return "4131", AccountTypeRevenue
	}
	return "4132", AccountTypeExpense
}
