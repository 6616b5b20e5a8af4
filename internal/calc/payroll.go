package calc

import "github.com/shopspring/decimal"

// PayrollInputs are the raw components of one payroll record.
type PayrollInputs struct {
	BaseSalary         decimal.Decimal
	OvertimeHours      decimal.Decimal
	OvertimeRate       decimal.Decimal
	Bonus              decimal.Decimal
	Commission         decimal.Decimal
	Allowances         decimal.Decimal
	TaxDeduction       decimal.Decimal
	InsuranceDeduction decimal.Decimal
	OtherDeductions    decimal.Decimal
}

// PayrollTotals are the derived payroll fields. NetSalary is gross minus
// deductions and may be negative; clamping is the caller's policy decision,
// not the calculator's.
type PayrollTotals struct {
	OvertimePay     decimal.Decimal
	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// ComputePayroll derives overtime pay, gross, total deductions and net from
// the raw inputs, each rounded to two decimals.
func ComputePayroll(in PayrollInputs) PayrollTotals {
	overtime := Round(in.OvertimeHours.Mul(in.OvertimeRate))
	gross := Round(in.BaseSalary.
		Add(overtime).
		Add(in.Bonus).
		Add(in.Commission).
		Add(in.Allowances))
	deductions := Round(in.TaxDeduction.
		Add(in.InsuranceDeduction).
		Add(in.OtherDeductions))
	net := Round(gross.Sub(deductions))
	return PayrollTotals{
		OvertimePay:     overtime,
		GrossSalary:     gross,
		TotalDeductions: deductions,
		NetSalary:       net,
	}
}
