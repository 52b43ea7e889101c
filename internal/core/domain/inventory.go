package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CostMethod is the inventory cost-flow assumption used when computing cost of
// goods sold for account 156.
type CostMethod string

const (
	CostFIFO        CostMethod = "FIFO"
	CostLIFO        CostMethod = "LIFO"
	CostWeightedAvg CostMethod = "WEIGHTED_AVG"
)

// InventoryLot is one receipt of stock still (partially) on hand.
type InventoryLot struct {
	ProductCode  string          `json:"productCode"`
	RemainingQty decimal.Decimal `json:"remainingQty"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	ReceiptDate  time.Time       `json:"receiptDate"`
}

// GoodsDemand is a requested issue quantity for one product.
type GoodsDemand struct {
	ProductCode string          `json:"productCode"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// CalculateCOGS computes the cost of goods sold for the demanded quantities
// against the supplied lots. Each call is a pure function; lot state is not
// mutated or persisted here.
//
// FIFO consumes lots in ascending receipt-date order, LIFO descending, with
// partial lot consumption. Demanding more than the lots hold is not an error:
// costing simply stops once the lots run out.
//
// WEIGHTED_AVG averages unit cost over ALL supplied lots without filtering by
// product code and prices every demand line at that single average. This
// mirrors the established ledger behavior and is kept for compatibility even
// though per-product averaging would be the stricter reading.
func CalculateCOGS(goods []GoodsDemand, lots []InventoryLot, method CostMethod) Money {
	if method == CostWeightedAvg {
		return weightedAvgCost(goods, lots)
	}

	totalCost := decimal.Zero
	for _, item := range goods {
		available := make([]InventoryLot, 0, len(lots))
		for _, lot := range lots {
			if lot.ProductCode == item.ProductCode && lot.RemainingQty.IsPositive() {
				available = append(available, lot)
			}
		}
		sort.SliceStable(available, func(i, j int) bool {
			if method == CostLIFO {
				return available[i].ReceiptDate.After(available[j].ReceiptDate)
			}
			return available[i].ReceiptDate.Before(available[j].ReceiptDate)
		})

		remaining := item.Quantity
		for _, lot := range available {
			take := decimal.Min(remaining, lot.RemainingQty)
			totalCost = totalCost.Add(take.Mul(lot.UnitCost))
			remaining = remaining.Sub(take)
			if remaining.LessThanOrEqual(decimal.Zero) {
				break
			}
		}
	}
	return VND(totalCost)
}

func weightedAvgCost(goods []GoodsDemand, lots []InventoryLot) Money {
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, lot := range lots {
		totalQty = totalQty.Add(lot.RemainingQty)
		totalValue = totalValue.Add(lot.RemainingQty.Mul(lot.UnitCost))
	}

	avgCost := decimal.Zero
	if totalQty.IsPositive() {
		avgCost = totalValue.Div(totalQty)
	}

	totalCost := decimal.Zero
	for _, item := range goods {
		totalCost = totalCost.Add(item.Quantity.Mul(avgCost))
	}
	return VND(totalCost)
}

// Stocktake difference accounts (Appendix II): 1381 holds shortages pending
// resolution, 3381 holds surpluses pending resolution.
const (
	ShortageAccount = "1381"
	SurplusAccount  = "3381"
)

// ReconcileInventory values the difference between a stocktake count and the
// book quantity and names the account the difference is parked on. A zero
// difference yields a zero amount and an empty account code.
func ReconcileInventory(productCode string, actualQty, bookQty decimal.Decimal, unitCost Money) (Money, string) {
	difference := actualQty.Sub(bookQty)
	switch {
	case difference.IsNegative():
		return NewMoney(difference.Abs().Mul(unitCost.Amount), unitCost.Currency), ShortageAccount
	case difference.IsPositive():
		return NewMoney(difference.Mul(unitCost.Amount), unitCost.Currency), SurplusAccount
	default:
		return ZeroVND(), ""
	}
}
