package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// LoginRequest authenticates a user by username and password.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"` // seconds
}

// CreateUserRequest registers a new operator.
type CreateUserRequest struct {
	Username string          `json:"username" binding:"required,min=3"`
	Password string          `json:"password" binding:"required,min=8"`
	Email    string          `json:"email" binding:"required,email"`
	FullName string          `json:"fullName" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required,oneof=ADMIN ACC_MGR ACCOUNTANT VIEWER AUDITOR"`
}

// UserResponse is the serialized user returned by the API.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain user to its API representation.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RecordExchangeRateRequest stores one rate observation.
type RecordExchangeRateRequest struct {
	Currency      string          `json:"currency" binding:"required,len=3"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	RateType      domain.RateType `json:"rateType" binding:"omitempty,oneof=REALTIME AVERAGE"`
	ValuationDate time.Time       `json:"valuationDate" binding:"required"`
	Source        string          `json:"source,omitempty"`
}

// ConvertToVNDRequest converts a foreign amount at a stored or supplied rate.
type ConvertToVNDRequest struct {
	Currency      string           `json:"currency" binding:"required,len=3"`
	Amount        decimal.Decimal  `json:"amount" binding:"required"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	ValuationDate *time.Time       `json:"valuationDate,omitempty"`
}

// ConversionResponse carries a converted VND amount.
type ConversionResponse struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Rate      decimal.Decimal `json:"rate"`
	VNDAmount decimal.Decimal `json:"vndAmount"`
}

// RevaluationRequest computes the period-end revaluation difference for a
// foreign-currency balance between its booked rate and the current rate.
type RevaluationRequest struct {
	Currency     string          `json:"currency" binding:"required,len=3"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	OriginalRate decimal.Decimal `json:"originalRate" binding:"required"`
	CurrentRate  decimal.Decimal `json:"currentRate" binding:"required"`
}

// RevaluationResponse carries the VND difference and the account that
// absorbs it (4131 on a gain, 4132 on a loss).
type RevaluationResponse struct {
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Difference  decimal.Decimal `json:"difference"`
	AccountCode string          `json:"accountCode"`
	AccountType string          `json:"accountType"`
}
