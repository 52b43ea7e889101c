package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnacct/vnacct/internal/core/domain"
)

func TestAccount_PostBalance(t *testing.T) {
	tests := []struct {
		name      string
		direction domain.BalanceDirection
		opening   int64
		debit     int64
		credit    int64
		want      string
	}{
		{"debit account receives debit", domain.DirectionDebit, 10000000, 5000000, 0, "15000000"},
		{"debit account receives credit", domain.DirectionDebit, 10000000, 0, 3000000, "7000000"},
		{"credit account receives credit", domain.DirectionCredit, 5000000, 0, 2000000, "7000000"},
		{"credit account receives debit", domain.DirectionCredit, 5000000, 2000000, 0, "3000000"},
		{"balance may go negative", domain.DirectionDebit, 1000000, 0, 4000000, "-3000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opening := domain.VND(decimal.NewFromInt(tt.opening))
			account := domain.Account{
				Code:             "1111",
				AccountType:      domain.AccountTypeAsset,
				BalanceDirection: tt.direction,
				CurrentBalance:   &opening,
				Currency:         domain.VNDCode,
				Version:          1,
			}

			updated := account.PostBalance(
				domain.VND(decimal.NewFromInt(tt.debit)),
				domain.VND(decimal.NewFromInt(tt.credit)),
			)

			require.NotNil(t, updated.CurrentBalance)
			assert.Equal(t, tt.want, updated.CurrentBalance.Amount.String())
			assert.Equal(t, account.Version+1, updated.Version)
			// direction never changes on posting
			assert.Equal(t, tt.direction, updated.BalanceDirection)
			// receiver untouched
			assert.Equal(t, tt.opening, account.CurrentBalance.Amount.IntPart())
		})
	}
}

func TestAccount_PostBalance_NilOpeningTreatedAsZero(t *testing.T) {
	account := domain.Account{
		Code:             "131",
		BalanceDirection: domain.DirectionDebit,
		Currency:         domain.VNDCode,
	}

	updated := account.PostBalance(domain.VND(decimal.NewFromInt(500000)), domain.ZeroVND())

	require.NotNil(t, updated.CurrentBalance)
	assert.Equal(t, "500000", updated.CurrentBalance.Amount.String())
}

func TestDirectionForType(t *testing.T) {
	assert.Equal(t, domain.DirectionDebit, domain.DirectionForType(domain.AccountTypeAsset))
	assert.Equal(t, domain.DirectionDebit, domain.DirectionForType(domain.AccountTypeExpense))
	assert.Equal(t, domain.DirectionDebit, domain.DirectionForType(domain.AccountTypeDirectCost))
	assert.Equal(t, domain.DirectionDebit, domain.DirectionForType(domain.AccountTypeOtherExpense))
	assert.Equal(t, domain.DirectionCredit, domain.DirectionForType(domain.AccountTypeLiability))
	assert.Equal(t, domain.DirectionCredit, domain.DirectionForType(domain.AccountTypeEquity))
	assert.Equal(t, domain.DirectionCredit, domain.DirectionForType(domain.AccountTypeRevenue))
	assert.Equal(t, domain.DirectionCredit, domain.DirectionForType(domain.AccountTypeOtherRevenue))
}

func TestAccountBalance_CheckNegativeBalance(t *testing.T) {
	tests := []struct {
		name         string
		closingDebit *domain.Money
		wantWarnings int
	}{
		{"absent closing debit never warns", nil, 0},
		{"positive closing debit never warns", vndPtr(1000000), 0},
		{"zero closing debit never warns", vndPtr(0), 0},
		{"negative closing debit warns", vndPtr(-500000), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance := domain.AccountBalance{
				AccountCode:  "156",
				PeriodType:   "MONTH",
				Year:         2025,
				PeriodValue:  12,
				ClosingDebit: tt.closingDebit,
			}
			warnings := balance.CheckNegativeBalance()
			assert.Len(t, warnings, tt.wantWarnings)
			if tt.wantWarnings > 0 {
				assert.Contains(t, warnings[0], "156")
			}
		})
	}
}
