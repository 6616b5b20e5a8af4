// Package calc holds the pure money and stock arithmetic. Every function is
// deterministic, takes values in and returns values out, and rounds monetary
// results to two decimal places. Nothing here touches the database.
package calc

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	oneUnit = decimal.NewFromInt(1)
)

// Round normalizes a monetary amount to two decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// OrderLine carries the inputs of one order line. Prices are snapshots taken
// when the line was created, not live catalog prices.
type OrderLine struct {
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// OrderTotals is the computed financial header of an order.
type OrderTotals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// LineSubtotal computes quantity x unit price less the percentage discount,
// rounded to two decimals.
func LineSubtotal(line OrderLine) decimal.Decimal {
	qty := decimal.NewFromInt(int64(line.Quantity))
	factor := oneUnit.Sub(line.DiscountPercent.Div(hundred))
	return Round(qty.Mul(line.UnitPrice).Mul(factor))
}

// LineDiscountAmount is the money removed from a line by its percentage
// discount, rounded to two decimals.
func LineDiscountAmount(line OrderLine) decimal.Decimal {
	qty := decimal.NewFromInt(int64(line.Quantity))
	return Round(qty.Mul(line.UnitPrice).Mul(line.DiscountPercent).Div(hundred))
}

// OrderTotalsFor recomputes an order's financial header from its lines and
// header-level rate and amounts. taxRate is a percentage; discountAmount and
// shippingCost are flat money amounts. Calling it twice on the same inputs
// yields the same totals.
func OrderTotalsFor(lines []OrderLine, taxRate, discountAmount, shippingCost decimal.Decimal) OrderTotals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(LineSubtotal(line))
	}
	subtotal = Round(subtotal)
	tax := Round(subtotal.Mul(taxRate).Div(hundred))
	total := Round(subtotal.Add(tax).Sub(discountAmount).Add(shippingCost))
	return OrderTotals{Subtotal: subtotal, TaxAmount: tax, Total: total}
}
