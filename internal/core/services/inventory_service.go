package services

import (
	"context"
	"fmt"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	"github.com/vnacct/vnacct/internal/dto"
)

// InventoryService exposes the pure inventory-costing calculators over the
// API boundary. It holds no state; lot data arrives with each request.
type InventoryService struct{}

// NewInventoryService creates a new InventoryService.
func NewInventoryService() *InventoryService {
	return &InventoryService{}
}

// CalculateCOGS computes cost of goods sold for the demanded goods.
func (s *InventoryService) CalculateCOGS(ctx context.Context, req dto.COGSCalculationRequest) (*dto.COGSCalculationResponse, error) {
	goods := make([]domain.GoodsDemand, 0, len(req.Goods))
	for i, g := range req.Goods {
		if !g.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: goods line %d has non-positive quantity", apperrors.ErrValidation, i+1)
		}
		goods = append(goods, domain.GoodsDemand{ProductCode: g.ProductCode, Quantity: g.Quantity})
	}
	lots := make([]domain.InventoryLot, 0, len(req.Lots))
	for i, l := range req.Lots {
		if l.RemainingQty.IsNegative() || l.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: lot %d has a negative quantity or cost", apperrors.ErrValidation, i+1)
		}
		lots = append(lots, domain.InventoryLot{
			ProductCode:  l.ProductCode,
			RemainingQty: l.RemainingQty,
			UnitCost:     l.UnitCost,
			ReceiptDate:  l.ReceiptDate,
		})
	}

	cost := domain.CalculateCOGS(goods, lots, req.Method)
	return &dto.COGSCalculationResponse{
		Method:    string(req.Method),
		TotalCost: cost.Amount,
		Currency:  cost.Currency,
	}, nil
}

// Reconcile values a stocktake difference and names the holding account.
func (s *InventoryService) Reconcile(ctx context.Context, req dto.ReconciliationRequest) (*dto.ReconciliationResponse, error) {
	if req.ActualQuantity.IsNegative() || req.BookQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: quantities must not be negative", apperrors.ErrValidation)
	}
	if req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost must not be negative", apperrors.ErrValidation)
	}

	amount, accountCode := domain.ReconcileInventory(req.ProductCode, req.ActualQuantity, req.BookQuantity, domain.VND(req.UnitCost))
	return &dto.ReconciliationResponse{
		ProductCode:      req.ProductCode,
		Difference:       req.ActualQuantity.Sub(req.BookQuantity),
		DifferenceAmount: amount.Amount,
		AccountCode:      accountCode,
	}, nil
}
