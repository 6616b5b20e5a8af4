package calc

import "github.com/shopspring/decimal"

// StockStatus is the derived alert state of an inventory item.
type StockStatus string

const (
	StockOK    StockStatus = "in_stock"
	StockLow   StockStatus = "low_stock"
	StockEmpty StockStatus = "out_of_stock"
)

// AdjustmentType selects how AdjustStock combines the current quantity with
// the requested one.
type AdjustmentType string

const (
	AdjustAdd      AdjustmentType = "add"
	AdjustSubtract AdjustmentType = "subtract"
	AdjustSet      AdjustmentType = "set"
)

// EvaluateStock classifies a quantity against the item's minimum level.
// Zero or negative stock is out of stock; a quantity at or below the minimum
// is low stock. Out-of-stock wins when both conditions hold.
func EvaluateStock(quantity, minimumLevel int) StockStatus {
	switch {
	case quantity <= 0:
		return StockEmpty
	case quantity <= minimumLevel:
		return StockLow
	default:
		return StockOK
	}
}

// ProfitMargin is (selling - cost) / cost as a percentage, rounded to two
// decimals. A zero or negative cost price yields zero rather than dividing
// by it.
func ProfitMargin(costPrice, sellingPrice decimal.Decimal) decimal.Decimal {
	if costPrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return Round(sellingPrice.Sub(costPrice).Div(costPrice).Mul(hundred))
}

// StockValue is quantity x cost price, rounded to two decimals.
func StockValue(quantity int, costPrice decimal.Decimal) decimal.Decimal {
	return Round(decimal.NewFromInt(int64(quantity)).Mul(costPrice))
}

// AdjustStock returns the new on-hand quantity after applying an adjustment.
// The requested quantity must not be negative, and a subtraction may not take
// the stock below zero; on error the current quantity is returned unchanged.
func AdjustStock(current int, adjustment AdjustmentType, quantity int) (int, error) {
	if quantity < 0 {
		return current, ErrNegativeQuantity
	}
	switch adjustment {
	case AdjustAdd:
		return current + quantity, nil
	case AdjustSubtract:
		if quantity > current {
			return current, ErrInsufficientStock
		}
		return current - quantity, nil
	case AdjustSet:
		return quantity, nil
	default:
		return current, ErrInvalidAdjustment
	}
}
