package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/authz"
	"backend/internal/calc"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

const topCustomerLimit = 10

// DashboardResponse is shaped per role: sections the caller may not read
// stay nil and are omitted from the JSON.
type DashboardResponse struct {
	Sales     *model.SalesSummary     `json:"sales,omitempty"`
	Inventory *model.InventoryReport  `json:"inventory,omitempty"`
	Payroll   *model.PayrollSummary   `json:"payroll,omitempty"`
	Financial *model.FinancialSummary `json:"financial,omitempty"`
}

type ReportService interface {
	SalesReport(ctx context.Context, startDate, endDate string) (*model.SalesSummary, error)
	InventoryReport(ctx context.Context) (*model.InventoryReport, error)
	PayrollReport(ctx context.Context, startDate, endDate string) (*model.PayrollSummary, error)
	FinancialReport(ctx context.Context, startDate, endDate string) (*model.FinancialSummary, error)
	PerformanceReport(ctx context.Context, startDate, endDate string) ([]model.PerformanceEntry, error)
	Dashboard(ctx context.Context, actor Actor) (*DashboardResponse, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

// reportRange parses the optional date bounds, defaulting to the last 30
// days ending now.
func reportRange(startDate, endDate string) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if parsed, err := parseOptionalDate(startDate, "start_date"); err != nil {
		return time.Time{}, time.Time{}, err
	} else if parsed != nil {
		start = *parsed
	}
	if parsed, err := parseOptionalDate(endDate, "end_date"); err != nil {
		return time.Time{}, time.Time{}, err
	} else if parsed != nil {
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	return start, end, nil
}

func (s *reportService) SalesReport(ctx context.Context, startDate, endDate string) (*model.SalesSummary, error) {
	start, end, err := reportRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	total, count, err := s.reportRepo.SalesTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if count > 0 {
		average = calc.Round(total.Div(decimal.NewFromInt(count)))
	}

	byStatus, err := s.reportRepo.SalesByStatus(ctx, start, end)
	if err != nil {
		return nil, err
	}
	topCustomers, err := s.reportRepo.TopCustomers(ctx, start, end, topCustomerLimit)
	if err != nil {
		return nil, err
	}
	byRep, err := s.reportRepo.SalesByRep(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &model.SalesSummary{
		StartDate:         start,
		EndDate:           end,
		TotalSales:        total,
		TotalOrders:       count,
		AverageOrderValue: average,
		SalesByStatus:     byStatus,
		TopCustomers:      topCustomers,
		SalesByRep:        byRep,
	}, nil
}

func (s *reportService) InventoryReport(ctx context.Context) (*model.InventoryReport, error) {
	report, err := s.reportRepo.InventoryTotals(ctx)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.reportRepo.InventoryByCategory(ctx)
	if err != nil {
		return nil, err
	}
	report.ByCategory = byCategory
	return report, nil
}

func (s *reportService) PayrollReport(ctx context.Context, startDate, endDate string) (*model.PayrollSummary, error) {
	start, end, err := reportRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.PayrollTotals(ctx, start, end)
}

// FinancialReport nets collected revenue against approved expenses and
// payroll for the period.
func (s *reportService) FinancialReport(ctx context.Context, startDate, endDate string) (*model.FinancialSummary, error) {
	start, end, err := reportRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	revenue, err := s.reportRepo.RevenueTotal(ctx, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reportRepo.ExpenseTotal(ctx, start, end)
	if err != nil {
		return nil, err
	}
	payroll, err := s.reportRepo.PayrollTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.reportRepo.UnpaidInvoiceTotal(ctx)
	if err != nil {
		return nil, err
	}

	return &model.FinancialSummary{
		StartDate:      start,
		EndDate:        end,
		TotalRevenue:   revenue,
		TotalExpenses:  expenses,
		TotalPayroll:   payroll.TotalNet,
		NetIncome:      calc.Round(revenue.Sub(expenses).Sub(payroll.TotalNet)),
		UnpaidInvoices: unpaid,
	}, nil
}

func (s *reportService) PerformanceReport(ctx context.Context, startDate, endDate string) ([]model.PerformanceEntry, error) {
	start, end, err := reportRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.EmployeePerformance(ctx, start, end)
}

// Dashboard assembles the sections the caller's role is allowed to read.
func (s *reportService) Dashboard(ctx context.Context, actor Actor) (*DashboardResponse, error) {
	role := authz.Role(actor.Role)
	resp := &DashboardResponse{}

	if authz.Can(role, authz.OpSalesReportRead) {
		sales, err := s.SalesReport(ctx, "", "")
		if err != nil {
			return nil, err
		}
		resp.Sales = sales
	}
	if authz.Can(role, authz.OpInventoryReportRead) {
		inventory, err := s.InventoryReport(ctx)
		if err != nil {
			return nil, err
		}
		resp.Inventory = inventory
	}
	if authz.Can(role, authz.OpPayrollRead) {
		payroll, err := s.PayrollReport(ctx, "", "")
		if err != nil {
			return nil, err
		}
		resp.Payroll = payroll
	}
	if authz.Can(role, authz.OpFinancialReportRead) {
		financial, err := s.FinancialReport(ctx, "", "")
		if err != nil {
			return nil, err
		}
		resp.Financial = financial
	}

	return resp, nil
}
