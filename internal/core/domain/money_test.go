package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnacct/vnacct/internal/core/domain"
)

func TestMoney_Add(t *testing.T) {
	tests := []struct {
		name    string
		a       domain.Money
		b       domain.Money
		want    string
		wantErr error
	}{
		{
			name: "same currency sums exactly",
			a:    domain.VND(decimal.NewFromInt(10000000)),
			b:    domain.VND(decimal.NewFromInt(1000000)),
			want: "11000000",
		},
		{
			name: "negative amounts are permitted",
			a:    domain.VND(decimal.NewFromInt(5000000)),
			b:    domain.VND(decimal.NewFromInt(-8000000)),
			want: "-3000000",
		},
		{
			name:    "different currencies fail",
			a:       domain.VND(decimal.NewFromInt(100)),
			b:       domain.NewMoney(decimal.NewFromInt(100), "USD"),
			wantErr: domain.ErrCurrencyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Amount.String())
			assert.Equal(t, tt.a.Currency, got.Currency)
		})
	}
}

func TestMoney_Sub(t *testing.T) {
	a := domain.VND(decimal.NewFromInt(1000))
	b := domain.NewMoney(decimal.NewFromInt(400), "USD")

	_, err := a.Sub(b)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	got, err := a.Sub(domain.VND(decimal.NewFromInt(400)))
	require.NoError(t, err)
	assert.Equal(t, "600", got.Amount.String())
}

func TestMoney_AddDoesNotMutateOperands(t *testing.T) {
	a := domain.VND(decimal.NewFromInt(100))
	b := domain.VND(decimal.NewFromInt(50))

	_, err := a.Add(b)
	require.NoError(t, err)

	assert.Equal(t, "100", a.Amount.String())
	assert.Equal(t, "50", b.Amount.String())
}

func TestExchangeRate_ToVND(t *testing.T) {
	rate := domain.ExchangeRate{
		Rate:     decimal.NewFromInt(25000),
		Currency: "USD",
		RateType: domain.RateRealtime,
	}

	got := rate.ToVND(decimal.NewFromInt(100))

	assert.Equal(t, "2500000", got.Amount.String())
	assert.Equal(t, domain.VNDCode, got.Currency)
}

func TestExchangeDiff_Classification(t *testing.T) {
	original := domain.ExchangeRate{Rate: decimal.NewFromInt(24000), Currency: "USD"}
	current := domain.ExchangeRate{Rate: decimal.NewFromInt(25000), Currency: "USD"}

	gain := domain.ExchangeDiff(original, current, decimal.NewFromInt(100))
	assert.Equal(t, "100000", gain.Amount.String())

	code, kind := domain.ClassifyExchangeDiff(gain)
	assert.Equal(t, "4131", code)
	assert.Equal(t, domain.AccountTypeRevenue, kind)

	loss := domain.ExchangeDiff(current, original, decimal.NewFromInt(100))
	code, kind = domain.ClassifyExchangeDiff(loss)
	assert.Equal(t, "4132", code)
	assert.Equal(t, domain.AccountTypeExpense, kind)
}
