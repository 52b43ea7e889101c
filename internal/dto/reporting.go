package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

// TrialBalanceResponse is the trial balance report (Appendix III).
type TrialBalanceResponse struct {
	PeriodType  string                      `json:"periodType"`
	PeriodValue int                         `json:"periodValue"`
	Year        int                         `json:"year"`
	Accounts    []portsrepo.TrialBalanceRow `json:"accounts"`
	TotalDebit  decimal.Decimal             `json:"totalDebit"`
	TotalCredit decimal.Decimal             `json:"totalCredit"`
	Difference  decimal.Decimal             `json:"difference"`
}

// FinancialStatementResponse is a statutory statement rendered as the ordered
// "Mã số" line map of Appendix IV.
type FinancialStatementResponse struct {
	ReportType   string         `json:"reportType"` // BALANCE_SHEET, INCOME_STATEMENT, CASH_FLOW
	ReportPeriod string         `json:"reportPeriod"`
	CompanyName  string         `json:"companyName"`
	TaxCode      string         `json:"taxCode"`
	Currency     string         `json:"currency"`
	Values       map[string]any `json:"values"`
}

// LockPeriodRequest locks a fiscal period.
type LockPeriodRequest struct {
	PeriodType  string `json:"periodType" binding:"required,oneof=MONTH QUARTER YEAR"`
	Year        int    `json:"year" binding:"required"`
	PeriodValue int    `json:"periodValue" binding:"required"`
}

// LockPeriodResponse summarizes what a period lock froze.
type LockPeriodResponse struct {
	PeriodType     string `json:"periodType"`
	Year           int    `json:"year"`
	PeriodValue    int    `json:"periodValue"`
	LockStatus     string `json:"lockStatus"`
	VouchersLocked int    `json:"vouchersLocked"`
	EntriesLocked  int    `json:"entriesLocked"`
}

// AuditLogResponse is one serialized audit-trail record.
type AuditLogResponse struct {
	AuditID    string    `json:"auditID"`
	UserID     string    `json:"userID"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	OldValue   string    `json:"oldValue,omitempty"`
	NewValue   string    `json:"newValue,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToAuditLogResponse converts a domain audit record.
func ToAuditLogResponse(l *domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		AuditID:    l.AuditID,
		UserID:     l.UserID,
		Action:     string(l.Action),
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		OldValue:   l.OldValue,
		NewValue:   l.NewValue,
		IPAddress:  l.IPAddress,
		CreatedAt:  l.CreatedAt,
	}
}

// ToAuditLogResponses converts a slice of domain audit records.
func ToAuditLogResponses(logs []domain.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToAuditLogResponse(&logs[i])
	}
	return responses
}

// AccountBalanceResponse is one serialized per-period balance snapshot.
type AccountBalanceResponse struct {
	AccountCode   string           `json:"accountCode"`
	PeriodType    string           `json:"periodType"`
	Year          int              `json:"year"`
	PeriodValue   int              `json:"periodValue"`
	ClosingDebit  *decimal.Decimal `json:"closingDebit,omitempty"`
	ClosingCredit *decimal.Decimal `json:"closingCredit,omitempty"`
}

// ToAccountBalanceResponse converts a domain balance snapshot.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	resp := AccountBalanceResponse{
		AccountCode: b.AccountCode,
		PeriodType:  b.PeriodType,
		Year:        b.Year,
		PeriodValue: b.PeriodValue,
	}
	if b.ClosingDebit != nil {
		resp.ClosingDebit = &b.ClosingDebit.Amount
	}
	if b.ClosingCredit != nil {
		resp.ClosingCredit = &b.ClosingCredit.Amount
	}
	return resp
}

// ToAccountBalanceResponses converts a slice of domain balance snapshots.
func ToAccountBalanceResponses(balances []domain.AccountBalance) []AccountBalanceResponse {
	responses := make([]AccountBalanceResponse, len(balances))
	for i := range balances {
		responses[i] = ToAccountBalanceResponse(&balances[i])
	}
	return responses
}

// NegativeBalanceWarningsResponse lists advisory warnings for critical
// accounts with negative balances.
type NegativeBalanceWarningsResponse struct {
	Warnings []string `json:"warnings"`
}
