package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// CreateVoucherLineRequest is one line of a voucher being created.
type CreateVoucherLineRequest struct {
	AccountCode        string           `json:"accountCode" binding:"required"`
	DebitAmount        *decimal.Decimal `json:"debitAmount,omitempty"`
	CreditAmount       *decimal.Decimal `json:"creditAmount,omitempty"`
	CounterpartAccount string           `json:"counterpartAccount,omitempty"`
	Description        string           `json:"description,omitempty"`
	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice          *decimal.Decimal `json:"unitPrice,omitempty"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty"`
	ForeignAmount      *decimal.Decimal `json:"foreignAmount,omitempty"`
	ForeignCurrency    string           `json:"foreignCurrency,omitempty"`
	TaxCode            string           `json:"taxCode,omitempty"`
	TaxRate            *decimal.Decimal `json:"taxRate,omitempty" binding:"omitempty"`
	ObjectCode         string           `json:"objectCode,omitempty"`
	ContractCode       string           `json:"contractCode,omitempty"`
}

// CreateVoucherRequest creates a voucher with its journal entry.
type CreateVoucherRequest struct {
	VoucherType       domain.VoucherType         `json:"voucherType" binding:"required,oneof=THU CHI NKC XK MUA BAN KPH KPD DIEU_CHINH KHAC"`
	VoucherDate       time.Time                  `json:"voucherDate" binding:"required"`
	PostingDate       *time.Time                 `json:"postingDate,omitempty"`
	Description       string                     `json:"description" binding:"required,max=500"`
	DescriptionDetail string                     `json:"descriptionDetail,omitempty"`
	DocumentRef       string                     `json:"documentRef,omitempty"`
	DocumentDate      *time.Time                 `json:"documentDate,omitempty"`
	BranchCode        string                     `json:"branchCode,omitempty"`
	Lines             []CreateVoucherLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SignVoucherRequest requests a digital signature on a voucher.
type SignVoucherRequest struct {
	SignerID          string `json:"signerID" binding:"required"`
	SignatureProvider string `json:"signatureProvider,omitempty" binding:"omitempty,oneof=USB CLOUD"`
}

// LockRequest locks a voucher or entry with a given lock type.
type LockRequest struct {
	LockType domain.LockStatus `json:"lockType" binding:"omitempty,oneof=MONTH_LOCKED QUARTER_LOCKED YEAR_LOCKED FINALIZED MANUAL"`
}

// VoucherResponse is the serialized voucher returned by the API.
type VoucherResponse struct {
	VoucherID         string     `json:"voucherID"`
	VoucherNumber     string     `json:"voucherNumber"`
	VoucherType       string     `json:"voucherType"`
	VoucherDate       time.Time  `json:"voucherDate"`
	PostingDate       *time.Time `json:"postingDate,omitempty"`
	Description       string     `json:"description"`
	DescriptionDetail string     `json:"descriptionDetail,omitempty"`
	DocumentRef       string     `json:"documentRef,omitempty"`
	IsSigned          bool       `json:"isSigned"`
	SignedAt          *time.Time `json:"signedAt,omitempty"`
	SignerID          string     `json:"signerID,omitempty"`
	IsLocked          bool       `json:"isLocked"`
	LockStatus        string     `json:"lockStatus"`
	Version           int64      `json:"version"`
	CreatedAt         time.Time  `json:"createdAt"`
	CreatedBy         string     `json:"createdBy"`
}

// ToVoucherResponse converts a domain voucher to its API representation.
func ToVoucherResponse(v *domain.AccountingVoucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:         v.VoucherID,
		VoucherNumber:     v.VoucherNumber,
		VoucherType:       string(v.VoucherType),
		VoucherDate:       v.VoucherDate,
		PostingDate:       v.PostingDate,
		Description:       v.Description,
		DescriptionDetail: v.DescriptionDetail,
		DocumentRef:       v.DocumentRef,
		IsSigned:          v.IsSigned,
		SignedAt:          v.SignedAt,
		SignerID:          v.SignerID,
		IsLocked:          v.IsLocked,
		LockStatus:        string(v.LockStatus),
		Version:           v.Version,
		CreatedAt:         v.CreatedAt,
		CreatedBy:         v.CreatedBy,
	}
}

// ToVoucherResponses converts a slice of domain vouchers.
func ToVoucherResponses(vouchers []domain.AccountingVoucher) []VoucherResponse {
	responses := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = ToVoucherResponse(&vouchers[i])
	}
	return responses
}

// BalanceCheckResponse reports whether a voucher's entries balance.
type BalanceCheckResponse struct {
	IsBalanced    bool            `json:"isBalanced"`
	VoucherNumber string          `json:"voucherNumber"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Difference    decimal.Decimal `json:"difference"`
	Errors        []string        `json:"errors"`
}
