package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// InventoryLotRequest is one available stock lot supplied for costing.
type InventoryLotRequest struct {
	ProductCode  string          `json:"productCode" binding:"required"`
	RemainingQty decimal.Decimal `json:"remainingQty" binding:"required"`
	UnitCost     decimal.Decimal `json:"unitCost" binding:"required"`
	ReceiptDate  time.Time       `json:"receiptDate" binding:"required"`
}

// GoodsDemandRequest is one requested issue quantity.
type GoodsDemandRequest struct {
	ProductCode string          `json:"productCode" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// COGSCalculationRequest computes cost of goods sold for the demanded goods.
type COGSCalculationRequest struct {
	Method domain.CostMethod     `json:"method" binding:"required,oneof=FIFO LIFO WEIGHTED_AVG"`
	Goods  []GoodsDemandRequest  `json:"goods" binding:"required,min=1,dive"`
	Lots   []InventoryLotRequest `json:"lots" binding:"required,dive"`
}

// COGSCalculationResponse carries the computed cost.
type COGSCalculationResponse struct {
	Method    string          `json:"method"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Currency  string          `json:"currency"`
}

// ReconciliationRequest values a stocktake difference.
type ReconciliationRequest struct {
	ProductCode    string          `json:"productCode" binding:"required"`
	ActualQuantity decimal.Decimal `json:"actualQuantity" binding:"required"`
	BookQuantity   decimal.Decimal `json:"bookQuantity" binding:"required"`
	UnitCost       decimal.Decimal `json:"unitCost" binding:"required"`
}

// ReconciliationResponse names the difference amount and the account it is
// parked on (1381 shortage, 3381 surplus, empty when quantities match).
type ReconciliationResponse struct {
	ProductCode      string          `json:"productCode"`
	Difference       decimal.Decimal `json:"difference"`
	DifferenceAmount decimal.Decimal `json:"differenceAmount"`
	AccountCode      string          `json:"accountCode"`
}

// ReceivableItemRequest is one receivable with its aging.
type ReceivableItemRequest struct {
	CustomerCode string          `json:"customerCode,omitempty"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	OverdueDays  int             `json:"overdueDays" binding:"min=0"`
}

// SpecificProvisionRequest computes the banded doubtful-debt provision.
type SpecificProvisionRequest struct {
	Receivables []ReceivableItemRequest `json:"receivables" binding:"required,min=1,dive"`
	OverdueDays int                     `json:"overdueDays,omitempty"` // legacy field, ignored per item
}

// GeneralProvisionRequest computes the flat 1% provision.
type GeneralProvisionRequest struct {
	TotalReceivables decimal.Decimal `json:"totalReceivables" binding:"required"`
}

// ProvisionResponse carries a computed provision amount.
type ProvisionResponse struct {
	ProvisionType   string          `json:"provisionType"` // SPECIFIC or GENERAL
	ProvisionAmount decimal.Decimal `json:"provisionAmount"`
	Currency        string          `json:"currency"`
}
