package calc

import (
	"errors"
	"testing"
)

func TestEvaluateStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minimum  int
		want     StockStatus
	}{
		{"above minimum", 10, 5, StockOK},
		{"at minimum is low", 5, 5, StockLow},
		{"below minimum is low", 3, 5, StockLow},
		{"zero is out of stock", 0, 5, StockEmpty},
		{"negative is out of stock", -1, 5, StockEmpty},
		{"zero with zero minimum is out of stock", 0, 0, StockEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateStock(tt.quantity, tt.minimum); got != tt.want {
				t.Errorf("EvaluateStock(%d, %d) = %s, want %s", tt.quantity, tt.minimum, got, tt.want)
			}
		})
	}
}

func TestProfitMargin(t *testing.T) {
	tests := []struct {
		name    string
		cost    string
		selling string
		want    string
	}{
		{"fifty percent", "10", "15", "50"},
		{"loss", "10", "8", "-20"},
		{"zero cost yields zero", "0", "15", "0"},
		{"negative cost yields zero", "-5", "15", "0"},
		{"rounded", "3", "4", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProfitMargin(dec(tt.cost), dec(tt.selling))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ProfitMargin(%s, %s) = %s, want %s", tt.cost, tt.selling, got, tt.want)
			}
		})
	}
}

func TestAdjustStock(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		adjustment AdjustmentType
		quantity   int
		want       int
		wantErr    error
	}{
		{"add", 10, AdjustAdd, 5, 15, nil},
		{"subtract", 10, AdjustSubtract, 5, 5, nil},
		{"subtract to zero", 10, AdjustSubtract, 10, 0, nil},
		{"set", 10, AdjustSet, 3, 3, nil},
		{"set to zero", 10, AdjustSet, 0, 0, nil},
		{"subtract past zero rejected", 5, AdjustSubtract, 6, 5, ErrInsufficientStock},
		{"negative quantity rejected", 10, AdjustAdd, -1, 10, ErrNegativeQuantity},
		{"unknown adjustment rejected", 10, AdjustmentType("remove"), 1, 10, ErrInvalidAdjustment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustStock(tt.current, tt.adjustment, tt.quantity)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AdjustStock() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AdjustStock() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdjustStockFailureLeavesQuantityUnchanged(t *testing.T) {
	const before = 7

	after, err := AdjustStock(before, AdjustSubtract, 100)
	if err == nil {
		t.Fatal("expected error subtracting past zero")
	}
	if after != before {
		t.Errorf("quantity changed on failed adjustment: before %d, after %d", before, after)
	}
}
