package domain

import "github.com/shopspring/decimal"

// AccountType classifies chart-of-accounts nodes per Appendix II of Circular
// 99/2025/TT-BTC.
type AccountType string

const (
	AccountTypeAsset        AccountType = "ASSET"         // 1xx
	AccountTypeLiability    AccountType = "LIABILITY"     // 2xx
	AccountTypeEquity       AccountType = "EQUITY"        // 3xx
	AccountTypeRevenue      AccountType = "REVENUE"       // 4xx
	AccountTypeExpense      AccountType = "EXPENSE"       // 5xx
	AccountTypeDirectCost   AccountType = "DIRECT_COST"   // 6xx
	AccountTypeOtherRevenue AccountType = "OTHER_REVENUE" // 7xx
	AccountTypeOtherExpense AccountType = "OTHER_EXPENSE" // 8xx
)

// BalanceDirection is the side on which an account normally increases.
// It is fixed when the account is created and never changed by posting.
type BalanceDirection string

const (
	DirectionDebit  BalanceDirection = "DEBIT"
	DirectionCredit BalanceDirection = "CREDIT"
)

// Account is a chart-of-accounts node. The parent/child structure forms a
// tree; cycle prevention is the caller's responsibility.
type Account struct {
	AccountID        string           `json:"accountID"`
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	AccountType      AccountType      `json:"accountType"`
	CompanyCode      string           `json:"companyCode"`
	ParentCode       string           `json:"parentCode,omitempty"`
	IsDetail         bool             `json:"isDetail"`
	IsActive         bool             `json:"isActive"`
	IsSystem         bool             `json:"isSystem"`
	OpeningDebit     *Money           `json:"openingDebit,omitempty"`
	OpeningCredit    *Money           `json:"openingCredit,omitempty"`
	CurrentBalance   *Money           `json:"currentBalance,omitempty"`
	BalanceDirection BalanceDirection `json:"balanceDirection"`
	Currency         string           `json:"currency"`
	Version          int64            `json:"version"`
	AuditFields
}

// PostBalance applies a debit/credit pair to the running balance using the
// direction-aware formula: debit-normal accounts increase with debits,
// credit-normal accounts increase with credits. Returns a new Account with
// the version bumped; the receiver is not modified. No bound is enforced —
// negative balances are flagged separately by AccountBalance warnings.
func (a Account) PostBalance(debit, credit Money) Account {
	current := ZeroVND()
	if a.CurrentBalance != nil {
		current = *a.CurrentBalance
	}
	var amount decimal.Decimal
	if a.BalanceDirection == DirectionDebit {
		amount = current.Amount.Add(debit.Amount).Sub(credit.Amount)
	} else {
		amount = current.Amount.Sub(debit.Amount).Add(credit.Amount)
	}
	newBalance := NewMoney(amount, a.Currency)
	a.CurrentBalance = &newBalance
	a.Version++
	return a
}

// DirectionForType returns the conventional normal side for an account type:
// assets and expense-like accounts are debit-normal, the rest credit-normal.
func DirectionForType(t AccountType) BalanceDirection {
	switch t {
	case AccountTypeAsset, AccountTypeExpense, AccountTypeDirectCost, AccountTypeOtherExpense:
		return DirectionDebit
	default:
		return DirectionCredit
	}
}

// AccountBalance is a per-period snapshot of one account's movement. It is
// used only for negative-balance warnings, never for posting.
type AccountBalance struct {
	AccountCode   string `json:"accountCode"`
	PeriodType    string `json:"periodType"` // MONTH, QUARTER, YEAR
	Year          int    `json:"year"`
	PeriodValue   int    `json:"periodValue"`
	CompanyCode   string `json:"companyCode"`
	OpeningDebit  *Money `json:"openingDebit,omitempty"`
	OpeningCredit *Money `json:"openingCredit,omitempty"`
	PeriodDebit   *Money `json:"periodDebit,omitempty"`
	PeriodCredit  *Money `json:"periodCredit,omitempty"`
	ClosingDebit  *Money `json:"closingDebit,omitempty"`
	ClosingCredit *Money `json:"closingCredit,omitempty"`
}

// CheckNegativeBalance returns advisory warnings. A warning is emitted only
// when the closing debit balance is present and negative.
func (b AccountBalance) CheckNegativeBalance() []string {
	var warnings []string
	if b.ClosingDebit != nil && b.ClosingDebit.IsNegative() {
		warnings = append(warnings, "account "+b.AccountCode+": negative closing balance")
	}
	return warnings
}
