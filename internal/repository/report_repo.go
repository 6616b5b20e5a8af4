package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository runs the aggregate queries behind the reporting endpoints.
// Sums are computed in SQL and scanned into decimals; the service layer only
// shapes the result.
type ReportRepository interface {
	SalesTotals(ctx context.Context, start, end time.Time) (total decimal.Decimal, count int64, err error)
	SalesByStatus(ctx context.Context, start, end time.Time) ([]model.StatusBreakdown, error)
	TopCustomers(ctx context.Context, start, end time.Time, limit int) ([]model.CustomerRanking, error)
	SalesByRep(ctx context.Context, start, end time.Time) ([]model.RepRanking, error)
	InventoryTotals(ctx context.Context) (*model.InventoryReport, error)
	InventoryByCategory(ctx context.Context) ([]model.CategoryValue, error)
	PayrollTotals(ctx context.Context, start, end time.Time) (*model.PayrollSummary, error)
	RevenueTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	ExpenseTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	UnpaidInvoiceTotal(ctx context.Context) (decimal.Decimal, error)
	EmployeePerformance(ctx context.Context, start, end time.Time) ([]model.PerformanceEntry, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SalesTotals(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error) {
	var result struct {
		Total decimal.Decimal
		Count int64
	}
	if err := GetDB(ctx, r.db).Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0) as total, COUNT(*) as count").
		Where("order_date >= ? AND order_date <= ? AND status <> ?", start, end, model.OrderStatusCancelled).
		Scan(&result).Error; err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to query sales totals: %w", err)
	}
	return result.Total, result.Count, nil
}

func (r *reportRepository) SalesByStatus(ctx context.Context, start, end time.Time) ([]model.StatusBreakdown, error) {
	var breakdown []model.StatusBreakdown
	if err := GetDB(ctx, r.db).Model(&model.Order{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(total), 0) as total").
		Where("order_date >= ? AND order_date <= ?", start, end).
		Group("status").
		Order("count DESC").
		Scan(&breakdown).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales by status: %w", err)
	}
	return breakdown, nil
}

func (r *reportRepository) TopCustomers(ctx context.Context, start, end time.Time, limit int) ([]model.CustomerRanking, error) {
	var rankings []model.CustomerRanking
	if err := GetDB(ctx, r.db).Table("orders").
		Select("customers.id as customer_id, customers.name as name, COUNT(orders.id) as order_count, COALESCE(SUM(orders.total), 0) as total_value").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.order_date >= ? AND orders.order_date <= ? AND orders.status <> ?", start, end, model.OrderStatusCancelled).
		Group("customers.id, customers.name").
		Order("total_value DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	return rankings, nil
}

func (r *reportRepository) SalesByRep(ctx context.Context, start, end time.Time) ([]model.RepRanking, error) {
	var rankings []model.RepRanking
	if err := GetDB(ctx, r.db).Table("orders").
		Select("employees.id as employee_id, employees.full_name as full_name, COUNT(orders.id) as order_count, COALESCE(SUM(orders.total), 0) as total_value").
		Joins("JOIN employees ON employees.id = orders.sales_rep_id").
		Where("orders.order_date >= ? AND orders.order_date <= ? AND orders.status <> ?", start, end, model.OrderStatusCancelled).
		Group("employees.id, employees.full_name").
		Order("total_value DESC").
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales by rep: %w", err)
	}
	return rankings, nil
}

func (r *reportRepository) InventoryTotals(ctx context.Context) (*model.InventoryReport, error) {
	var report model.InventoryReport
	if err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Select(
			"COUNT(*) as total_items, "+
				"COALESCE(SUM(quantity_in_stock * cost_price), 0) as total_stock_value, "+
				"COUNT(*) FILTER (WHERE quantity_in_stock > 0 AND quantity_in_stock <= minimum_stock_level) as low_stock_count, "+
				"COUNT(*) FILTER (WHERE quantity_in_stock <= 0) as out_of_stock_count").
		Where("is_active = ?", true).
		Scan(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to query inventory totals: %w", err)
	}
	return &report, nil
}

func (r *reportRepository) InventoryByCategory(ctx context.Context) ([]model.CategoryValue, error) {
	var values []model.CategoryValue
	if err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Select("category, COUNT(*) as item_count, COALESCE(SUM(quantity_in_stock * cost_price), 0) as stock_value").
		Where("is_active = ?", true).
		Group("category").
		Order("stock_value DESC").
		Scan(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to query inventory by category: %w", err)
	}
	return values, nil
}

func (r *reportRepository) PayrollTotals(ctx context.Context, start, end time.Time) (*model.PayrollSummary, error) {
	var summary model.PayrollSummary
	if err := GetDB(ctx, r.db).Model(&model.Payroll{}).
		Select(
			"COUNT(*) as record_count, "+
				"COALESCE(SUM(gross_salary), 0) as total_gross, "+
				"COALESCE(SUM(total_deductions), 0) as total_deductions, "+
				"COALESCE(SUM(net_salary), 0) as total_net, "+
				"COALESCE(SUM(overtime_pay), 0) as total_overtime").
		Where("pay_period_start >= ? AND pay_period_end <= ? AND status <> ?", start, end, model.PayrollStatusCancelled).
		Scan(&summary).Error; err != nil {
		return nil, fmt.Errorf("failed to query payroll totals: %w", err)
	}
	summary.StartDate = start
	summary.EndDate = end
	return &summary, nil
}

func (r *reportRepository) RevenueTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("COALESCE(SUM(paid_amount), 0) as total").
		Where("invoice_date >= ? AND invoice_date <= ? AND status <> ?", start, end, model.InvoiceStatusCancelled).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to query revenue total: %w", err)
	}
	return result.Total, nil
}

func (r *reportRepository) ExpenseTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("expense_date >= ? AND expense_date <= ? AND status IN ?", start, end,
			[]string{model.ExpenseStatusApproved, model.ExpenseStatusPaid}).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to query expense total: %w", err)
	}
	return result.Total, nil
}

func (r *reportRepository) UnpaidInvoiceTotal(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("COALESCE(SUM(balance_due), 0) as total").
		Where("status NOT IN ?", []string{model.InvoiceStatusPaid, model.InvoiceStatusCancelled}).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to query unpaid invoice total: %w", err)
	}
	return result.Total, nil
}

func (r *reportRepository) EmployeePerformance(ctx context.Context, start, end time.Time) ([]model.PerformanceEntry, error) {
	var entries []model.PerformanceEntry
	if err := GetDB(ctx, r.db).Table("employees").
		Select(
			"employees.id as employee_id, employees.full_name as full_name, employees.position as position, "+
				"COUNT(orders.id) as order_count, COALESCE(SUM(orders.total), 0) as sales_value, "+
				"employees.reward_points as reward_points").
		Joins("LEFT JOIN orders ON orders.sales_rep_id = employees.id AND orders.order_date >= ? AND orders.order_date <= ? AND orders.status <> ?",
			start, end, model.OrderStatusCancelled).
		Where("employees.is_active = ?", true).
		Group("employees.id, employees.full_name, employees.position, employees.reward_points").
		Order("sales_value DESC").
		Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query employee performance: %w", err)
	}
	return entries, nil
}
