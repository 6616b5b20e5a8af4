package calc

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputePayroll(t *testing.T) {
	tests := []struct {
		name            string
		in              PayrollInputs
		wantOvertime    string
		wantGross       string
		wantDeductions  string
		wantNet         string
	}{
		{
			name: "base with overtime and bonus",
			in: PayrollInputs{
				BaseSalary:         dec("5000"),
				OvertimeHours:      dec("10"),
				OvertimeRate:       dec("20"),
				Bonus:              dec("200"),
				TaxDeduction:       dec("300"),
				InsuranceDeduction: dec("100"),
			},
			wantOvertime:   "200",
			wantGross:      "5400",
			wantDeductions: "400",
			wantNet:        "5000",
		},
		{
			name: "base only",
			in: PayrollInputs{
				BaseSalary: dec("3000"),
			},
			wantOvertime:   "0",
			wantGross:      "3000",
			wantDeductions: "0",
			wantNet:        "3000",
		},
		{
			name: "deductions exceed gross leaves net negative",
			in: PayrollInputs{
				BaseSalary:   dec("1000"),
				TaxDeduction: dec("1500"),
			},
			wantOvertime:   "0",
			wantGross:      "1000",
			wantDeductions: "1500",
			wantNet:        "-500",
		},
		{
			name: "all components",
			in: PayrollInputs{
				BaseSalary:         dec("4000"),
				OvertimeHours:      dec("5.5"),
				OvertimeRate:       dec("30"),
				Bonus:              dec("150"),
				Commission:         dec("275.50"),
				Allowances:         dec("100"),
				TaxDeduction:       dec("450"),
				InsuranceDeduction: dec("120"),
				OtherDeductions:    dec("30"),
			},
			wantOvertime:   "165",
			wantGross:      "4690.50",
			wantDeductions: "600",
			wantNet:        "4090.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePayroll(tt.in)
			if !got.OvertimePay.Equal(dec(tt.wantOvertime)) {
				t.Errorf("OvertimePay = %s, want %s", got.OvertimePay, tt.wantOvertime)
			}
			if !got.GrossSalary.Equal(dec(tt.wantGross)) {
				t.Errorf("GrossSalary = %s, want %s", got.GrossSalary, tt.wantGross)
			}
			if !got.TotalDeductions.Equal(dec(tt.wantDeductions)) {
				t.Errorf("TotalDeductions = %s, want %s", got.TotalDeductions, tt.wantDeductions)
			}
			if !got.NetSalary.Equal(dec(tt.wantNet)) {
				t.Errorf("NetSalary = %s, want %s", got.NetSalary, tt.wantNet)
			}
		})
	}
}

func TestComputePayrollIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	randMoney := func(max float64) decimal.Decimal {
		return decimal.NewFromFloat(rng.Float64() * max).Round(2)
	}

	for i := 0; i < 200; i++ {
		in := PayrollInputs{
			BaseSalary:         randMoney(10000),
			OvertimeHours:      randMoney(80),
			OvertimeRate:       randMoney(60),
			Bonus:              randMoney(1000),
			Commission:         randMoney(2000),
			Allowances:         randMoney(500),
			TaxDeduction:       randMoney(3000),
			InsuranceDeduction: randMoney(500),
			OtherDeductions:    randMoney(300),
		}

		first := ComputePayroll(in)
		second := ComputePayroll(in)

		if !first.GrossSalary.Equal(second.GrossSalary) || !first.NetSalary.Equal(second.NetSalary) {
			t.Fatalf("recomputation diverged: %+v vs %+v", first, second)
		}
		if !first.NetSalary.Equal(first.GrossSalary.Sub(first.TotalDeductions)) {
			t.Fatalf("net %s does not equal gross %s minus deductions %s",
				first.NetSalary, first.GrossSalary, first.TotalDeductions)
		}
	}
}
