package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// CreateAccountRequest adds a node to the chart of accounts.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE DIRECT_COST OTHER_REVENUE OTHER_EXPENSE"`
	ParentCode  string             `json:"parentCode,omitempty"`
	IsDetail    bool               `json:"isDetail"`
	Currency    string             `json:"currency,omitempty"`
}

// AccountResponse is the serialized account returned by the API.
type AccountResponse struct {
	AccountID        string           `json:"accountID"`
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	AccountType      string           `json:"accountType"`
	ParentCode       string           `json:"parentCode,omitempty"`
	IsDetail         bool             `json:"isDetail"`
	IsActive         bool             `json:"isActive"`
	CurrentBalance   *decimal.Decimal `json:"currentBalance,omitempty"`
	BalanceDirection string           `json:"balanceDirection"`
	Currency         string           `json:"currency"`
	Version          int64            `json:"version"`
}

// ToAccountResponse converts a domain account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	resp := AccountResponse{
		AccountID:        a.AccountID,
		Code:             a.Code,
		Name:             a.Name,
		AccountType:      string(a.AccountType),
		ParentCode:       a.ParentCode,
		IsDetail:         a.IsDetail,
		IsActive:         a.IsActive,
		BalanceDirection: string(a.BalanceDirection),
		Currency:         a.Currency,
		Version:          a.Version,
	}
	if a.CurrentBalance != nil {
		resp.CurrentBalance = &a.CurrentBalance.Amount
	}
	return resp
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
