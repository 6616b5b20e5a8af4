package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary aggregates order totals for a date range
type SalesSummary struct {
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	TotalSales        decimal.Decimal   `json:"total_sales"`
	TotalOrders       int64             `json:"total_orders"`
	AverageOrderValue decimal.Decimal   `json:"average_order_value"`
	SalesByStatus     []StatusBreakdown `json:"sales_by_status"`
	TopCustomers      []CustomerRanking `json:"top_customers"`
	SalesByRep        []RepRanking      `json:"sales_by_rep"`
}

// StatusBreakdown is one bucket of a group-by-status aggregate
type StatusBreakdown struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// CustomerRanking ranks customers by accumulated order value
type CustomerRanking struct {
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	OrderCount int64           `json:"order_count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// RepRanking ranks sales reps by accumulated order value
type RepRanking struct {
	EmployeeID string          `json:"employee_id"`
	FullName   string          `json:"full_name"`
	OrderCount int64           `json:"order_count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// InventoryReport summarizes stock valuation and alert counts
type InventoryReport struct {
	TotalItems      int64           `json:"total_items"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	ByCategory      []CategoryValue `json:"by_category"`
}

// CategoryValue is stock valuation for one product category
type CategoryValue struct {
	Category   string          `json:"category"`
	ItemCount  int64           `json:"item_count"`
	StockValue decimal.Decimal `json:"stock_value"`
}

// PayrollSummary aggregates payroll totals for a date range
type PayrollSummary struct {
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	RecordCount     int64           `json:"record_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	TotalOvertime   decimal.Decimal `json:"total_overtime"`
}

// FinancialSummary is the finance-only revenue/expense view
type FinancialSummary struct {
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	TotalPayroll   decimal.Decimal `json:"total_payroll"`
	NetIncome      decimal.Decimal `json:"net_income"`
	UnpaidInvoices decimal.Decimal `json:"unpaid_invoices"`
}

// PerformanceEntry is one employee row in the performance report
type PerformanceEntry struct {
	EmployeeID   string          `json:"employee_id"`
	FullName     string          `json:"full_name"`
	Position     string          `json:"position"`
	OrderCount   int64           `json:"order_count"`
	SalesValue   decimal.Decimal `json:"sales_value"`
	RewardPoints int             `json:"reward_points"`
}
