package domain

import "github.com/shopspring/decimal"

// Receivable is one doubtful receivable with its own aging.
type Receivable struct {
	CustomerCode string          `json:"customerCode,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	OverdueDays  int             `json:"overdueDays"`
}

// provisionBand maps an inclusive overdue-day range to a provision rate
// (Circular 48/2019/TT-BTC, account 229). The first matching band wins.
type provisionBand struct {
	minDays int
	maxDays int
	rate    decimal.Decimal
}

var provisionBands = []provisionBand{
	{0, 90, decimal.Zero},
	{91, 180, decimal.NewFromFloat(0.30)},
	{181, 365, decimal.NewFromFloat(0.50)},
	{366, 99999, decimal.NewFromInt(1)},
}

// ProvisionRateFor returns the specific-provision rate for a given number of
// overdue days.
func ProvisionRateFor(overdueDays int) decimal.Decimal {
	for _, band := range provisionBands {
		if overdueDays >= band.minDays && overdueDays <= band.maxDays {
			return band.rate
		}
	}
	return decimal.Zero
}

// CalculateSpecificProvision sums the banded provision over the receivables,
// using each item's own overdue days. The overdueDays parameter is retained
// for compatibility with existing callers and is not consulted.
func CalculateSpecificProvision(receivables []Receivable, overdueDays int) Money {
	_ = overdueDays
	total := decimal.Zero
	for _, item := range receivables {
		rate := ProvisionRateFor(item.OverdueDays)
		total = total.Add(item.Amount.Mul(rate))
	}
	return VND(total)
}

// generalProvisionRate is the flat allowance applied across the whole
// receivable book regardless of aging.
var generalProvisionRate = decimal.NewFromFloat(0.01)

// CalculateGeneralProvision returns 1% of the total receivables.
func CalculateGeneralProvision(totalReceivables Money) Money {
	return VND(totalReceivables.Amount.Mul(generalProvisionRate))
}
