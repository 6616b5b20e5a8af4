package calc

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineSubtotal(t *testing.T) {
	tests := []struct {
		name string
		line OrderLine
		want string
	}{
		{
			name: "no discount",
			line: OrderLine{Quantity: 2, UnitPrice: dec("10.00")},
			want: "20",
		},
		{
			name: "ten percent discount",
			line: OrderLine{Quantity: 1, UnitPrice: dec("5.00"), DiscountPercent: dec("10")},
			want: "4.5",
		},
		{
			name: "full discount",
			line: OrderLine{Quantity: 3, UnitPrice: dec("9.99"), DiscountPercent: dec("100")},
			want: "0",
		},
		{
			name: "zero quantity",
			line: OrderLine{Quantity: 0, UnitPrice: dec("19.99")},
			want: "0",
		},
		{
			name: "rounds to two decimals",
			line: OrderLine{Quantity: 3, UnitPrice: dec("3.333")},
			want: "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineSubtotal(tt.line)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("LineSubtotal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOrderTotalsFor(t *testing.T) {
	lines := []OrderLine{
		{Quantity: 2, UnitPrice: dec("10.00")},
		{Quantity: 1, UnitPrice: dec("5.00"), DiscountPercent: dec("10")},
	}

	got := OrderTotalsFor(lines, dec("10"), dec("1.00"), dec("2.00"))

	if !got.Subtotal.Equal(dec("24.50")) {
		t.Errorf("Subtotal = %s, want 24.50", got.Subtotal)
	}
	if !got.TaxAmount.Equal(dec("2.45")) {
		t.Errorf("TaxAmount = %s, want 2.45", got.TaxAmount)
	}
	if !got.Total.Equal(dec("27.95")) {
		t.Errorf("Total = %s, want 27.95", got.Total)
	}
}

func TestOrderTotalsForEmptyOrder(t *testing.T) {
	got := OrderTotalsFor(nil, dec("10"), decimal.Zero, decimal.Zero)
	if !got.Subtotal.IsZero() || !got.TaxAmount.IsZero() || !got.Total.IsZero() {
		t.Errorf("empty order totals = %+v, want all zero", got)
	}
}

func TestOrderTotalsForIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		lines := make([]OrderLine, 1+rng.Intn(5))
		for j := range lines {
			lines[j] = OrderLine{
				Quantity:        rng.Intn(50),
				UnitPrice:       decimal.NewFromFloat(rng.Float64() * 500).Round(2),
				DiscountPercent: decimal.NewFromInt(int64(rng.Intn(101))),
			}
		}
		taxRate := decimal.NewFromInt(int64(rng.Intn(30)))
		discount := decimal.NewFromFloat(rng.Float64() * 20).Round(2)
		shipping := decimal.NewFromFloat(rng.Float64() * 50).Round(2)

		first := OrderTotalsFor(lines, taxRate, discount, shipping)
		second := OrderTotalsFor(lines, taxRate, discount, shipping)

		if !first.Subtotal.Equal(second.Subtotal) || !first.TaxAmount.Equal(second.TaxAmount) || !first.Total.Equal(second.Total) {
			t.Fatalf("recomputation diverged: %+v vs %+v", first, second)
		}

		sum := decimal.Zero
		for _, line := range lines {
			sum = sum.Add(LineSubtotal(line))
		}
		if !first.Subtotal.Equal(Round(sum)) {
			t.Fatalf("subtotal %s does not equal sum of line subtotals %s", first.Subtotal, sum)
		}

		wantTotal := Round(first.Subtotal.Add(first.TaxAmount).Sub(discount).Add(shipping))
		if !first.Total.Equal(wantTotal) {
			t.Fatalf("total %s does not equal subtotal+tax-discount+shipping %s", first.Total, wantTotal)
		}
	}
}
