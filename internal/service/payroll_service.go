package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/authz"
	"backend/internal/calc"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreatePayrollRequest struct {
	EmployeeID         string          `json:"employee_id" binding:"required"`
	PayPeriodStart     string          `json:"pay_period_start" binding:"required"`
	PayPeriodEnd       string          `json:"pay_period_end" binding:"required"`
	BaseSalary         decimal.Decimal `json:"base_salary" binding:"required"`
	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	OvertimeRate       decimal.Decimal `json:"overtime_rate"`
	Bonus              decimal.Decimal `json:"bonus"`
	Commission         decimal.Decimal `json:"commission"`
	Allowances         decimal.Decimal `json:"allowances"`
	TaxDeduction       decimal.Decimal `json:"tax_deduction"`
	InsuranceDeduction decimal.Decimal `json:"insurance_deduction"`
	OtherDeductions    decimal.Decimal `json:"other_deductions"`
	PaymentMethod      string          `json:"payment_method"`
	Notes              string          `json:"notes"`
}

type UpdatePayrollRequest struct {
	BaseSalary         *decimal.Decimal `json:"base_salary"`
	OvertimeHours      *decimal.Decimal `json:"overtime_hours"`
	OvertimeRate       *decimal.Decimal `json:"overtime_rate"`
	Bonus              *decimal.Decimal `json:"bonus"`
	Commission         *decimal.Decimal `json:"commission"`
	Allowances         *decimal.Decimal `json:"allowances"`
	TaxDeduction       *decimal.Decimal `json:"tax_deduction"`
	InsuranceDeduction *decimal.Decimal `json:"insurance_deduction"`
	OtherDeductions    *decimal.Decimal `json:"other_deductions"`
	PaymentMethod      string           `json:"payment_method"`
	Notes              string           `json:"notes"`
}

type PayrollService interface {
	CreatePayroll(ctx context.Context, actor Actor, req CreatePayrollRequest) (*model.Payroll, error)
	GetPayrollByID(ctx context.Context, actor Actor, id string) (*model.Payroll, error)
	ListPayrolls(ctx context.Context, page, limit int, employeeID, status string) ([]model.Payroll, int64, error)
	ListMyPayrolls(ctx context.Context, actor Actor) ([]model.Payroll, error)
	UpdatePayroll(ctx context.Context, actor Actor, id string, req UpdatePayrollRequest) (*model.Payroll, error)
	ApprovePayroll(ctx context.Context, actor Actor, id string) (*model.Payroll, error)
	CancelPayroll(ctx context.Context, actor Actor, id string) (*model.Payroll, error)
}

type payrollService struct {
	payrollRepo  repository.PayrollRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewPayrollService(
	payrollRepo repository.PayrollRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PayrollService {
	return &payrollService{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// applyTotals recomputes all derived payroll fields from the inputs. The net
// may come out negative; it is stored as computed.
func applyTotals(p *model.Payroll) {
	totals := calc.ComputePayroll(calc.PayrollInputs{
		BaseSalary:         p.BaseSalary,
		OvertimeHours:      p.OvertimeHours,
		OvertimeRate:       p.OvertimeRate,
		Bonus:              p.Bonus,
		Commission:         p.Commission,
		Allowances:         p.Allowances,
		TaxDeduction:       p.TaxDeduction,
		InsuranceDeduction: p.InsuranceDeduction,
		OtherDeductions:    p.OtherDeductions,
	})
	p.OvertimePay = totals.OvertimePay
	p.GrossSalary = totals.GrossSalary
	p.TotalDeductions = totals.TotalDeductions
	p.NetSalary = totals.NetSalary
}

func validatePayrollInputs(p *model.Payroll) error {
	for _, amount := range []decimal.Decimal{
		p.BaseSalary, p.OvertimeHours, p.OvertimeRate, p.Bonus, p.Commission,
		p.Allowances, p.TaxDeduction, p.InsuranceDeduction, p.OtherDeductions,
	} {
		if amount.IsNegative() {
			return fmt.Errorf("%w: payroll amounts must not be negative", ErrInvalidInput)
		}
	}
	return nil
}

func (s *payrollService) CreatePayroll(ctx context.Context, actor Actor, req CreatePayrollRequest) (*model.Payroll, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrInvalidInput)
	}

	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if employee.EmploymentStatus == model.EmploymentTerminated {
		return nil, fmt.Errorf("%w: employee is terminated", ErrInvalidInput)
	}

	periodStart, err := time.Parse("2006-01-02", req.PayPeriodStart)
	if err != nil {
		return nil, fmt.Errorf("%w: pay_period_start must be YYYY-MM-DD", ErrInvalidInput)
	}
	periodEnd, err := time.Parse("2006-01-02", req.PayPeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: pay_period_end must be YYYY-MM-DD", ErrInvalidInput)
	}
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: pay period end before start", ErrInvalidInput)
	}

	// One record per employee per period.
	if _, err := s.payrollRepo.FindByEmployeeAndPeriod(ctx, employeeID, periodStart, periodEnd); err == nil {
		return nil, fmt.Errorf("%w: payroll already exists for this period", ErrDuplicate)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "bank_transfer"
	}

	payroll := &model.Payroll{
		EmployeeID:         employeeID,
		PayPeriodStart:     periodStart,
		PayPeriodEnd:       periodEnd,
		BaseSalary:         req.BaseSalary,
		OvertimeHours:      req.OvertimeHours,
		OvertimeRate:       req.OvertimeRate,
		Bonus:              req.Bonus,
		Commission:         req.Commission,
		Allowances:         req.Allowances,
		TaxDeduction:       req.TaxDeduction,
		InsuranceDeduction: req.InsuranceDeduction,
		OtherDeductions:    req.OtherDeductions,
		PaymentMethod:      paymentMethod,
		Status:             model.PayrollStatusPending,
		Notes:              req.Notes,
	}
	if err := validatePayrollInputs(payroll); err != nil {
		return nil, err
	}
	applyTotals(payroll)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.Create(txCtx, payroll); err != nil {
			return fmt.Errorf("failed to create payroll: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"employee_id": payroll.EmployeeID.String(),
			"gross":       payroll.GrossSalary,
			"net":         payroll.NetSalary,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "payrolls",
			RecordID:  payroll.ID.String(),
			Operation: model.AuditOpInsert,
			NewValues: string(newValues),
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityInfo,
		})
	})
	if err != nil {
		return nil, err
	}

	return payroll, nil
}

// GetPayrollByID serves payroll-tier readers plus the employee the record
// belongs to; everyone else is refused.
func (s *payrollService) GetPayrollByID(ctx context.Context, actor Actor, id string) (*model.Payroll, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payroll id", ErrInvalidInput)
	}

	payroll, err := s.payrollRepo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !authz.Can(authz.Role(actor.Role), authz.OpPayrollRead) &&
		!authz.Owns(actor.EmployeeID, payroll.EmployeeID.String()) {
		return nil, ErrForbidden
	}
	return payroll, nil
}

func (s *payrollService) ListPayrolls(ctx context.Context, page, limit int, employeeID, status string) ([]model.Payroll, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	eid, err := parseOptionalUUID(employeeID, "employee id")
	if err != nil {
		return nil, 0, err
	}
	return s.payrollRepo.List(ctx, page, limit, eid, status)
}

func (s *payrollService) ListMyPayrolls(ctx context.Context, actor Actor) ([]model.Payroll, error) {
	if actor.EmployeeID == "" {
		return []model.Payroll{}, nil
	}
	employeeID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrInvalidInput)
	}
	return s.payrollRepo.ListByEmployee(ctx, employeeID)
}

func (s *payrollService) UpdatePayroll(ctx context.Context, actor Actor, id string, req UpdatePayrollRequest) (*model.Payroll, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payroll id", ErrInvalidInput)
	}

	payroll, err := s.payrollRepo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if payroll.Status != model.PayrollStatusPending {
		return nil, fmt.Errorf("%w: only pending payroll can be edited", ErrInvalidInput)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"gross": payroll.GrossSalary, "net": payroll.NetSalary,
	})

	if req.BaseSalary != nil {
		payroll.BaseSalary = *req.BaseSalary
	}
	if req.OvertimeHours != nil {
		payroll.OvertimeHours = *req.OvertimeHours
	}
	if req.OvertimeRate != nil {
		payroll.OvertimeRate = *req.OvertimeRate
	}
	if req.Bonus != nil {
		payroll.Bonus = *req.Bonus
	}
	if req.Commission != nil {
		payroll.Commission = *req.Commission
	}
	if req.Allowances != nil {
		payroll.Allowances = *req.Allowances
	}
	if req.TaxDeduction != nil {
		payroll.TaxDeduction = *req.TaxDeduction
	}
	if req.InsuranceDeduction != nil {
		payroll.InsuranceDeduction = *req.InsuranceDeduction
	}
	if req.OtherDeductions != nil {
		payroll.OtherDeductions = *req.OtherDeductions
	}
	if req.PaymentMethod != "" {
		payroll.PaymentMethod = req.PaymentMethod
	}
	if req.Notes != "" {
		payroll.Notes = req.Notes
	}

	if err := validatePayrollInputs(payroll); err != nil {
		return nil, err
	}
	applyTotals(payroll)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.Update(txCtx, payroll); err != nil {
			return fmt.Errorf("failed to update payroll: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"gross": payroll.GrossSalary, "net": payroll.NetSalary,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "payrolls",
			RecordID:  payroll.ID.String(),
			Operation: model.AuditOpUpdate,
			OldValues: string(oldValues),
			NewValues: string(newValues),
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityInfo,
		})
	})
	if err != nil {
		return nil, err
	}

	return payroll, nil
}

// ApprovePayroll moves a pending record to paid and stamps the approver.
func (s *payrollService) ApprovePayroll(ctx context.Context, actor Actor, id string) (*model.Payroll, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payroll id", ErrInvalidInput)
	}

	payroll, err := s.payrollRepo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if payroll.Status != model.PayrollStatusPending {
		return nil, fmt.Errorf("%w: payroll is %s", ErrInvalidInput, payroll.Status)
	}

	now := time.Now()
	payroll.Status = model.PayrollStatusPaid
	payroll.PaymentDate = &now
	payroll.ApprovedBy = actor.userUUID()

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.Update(txCtx, payroll); err != nil {
			return fmt.Errorf("failed to approve payroll: %w", err)
		}

		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName:   "payrolls",
			RecordID:    payroll.ID.String(),
			Operation:   model.AuditOpApprove,
			OldValues:   `{"status": "pending"}`,
			NewValues:   `{"status": "paid"}`,
			UserID:      actor.userUUID(),
			UserEmail:   actor.Email,
			IPAddress:   actor.IPAddress,
			UserAgent:   actor.UserAgent,
			Description: "payroll approved and marked paid",
			Severity:    model.AuditSeverityInfo,
		})
	})
	if err != nil {
		return nil, err
	}

	return payroll, nil
}

func (s *payrollService) CancelPayroll(ctx context.Context, actor Actor, id string) (*model.Payroll, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payroll id", ErrInvalidInput)
	}

	payroll, err := s.payrollRepo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if payroll.Status != model.PayrollStatusPending {
		return nil, fmt.Errorf("%w: only pending payroll can be cancelled", ErrInvalidInput)
	}

	payroll.Status = model.PayrollStatusCancelled

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.Update(txCtx, payroll); err != nil {
			return fmt.Errorf("failed to cancel payroll: %w", err)
		}

		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "payrolls",
			RecordID:  payroll.ID.String(),
			Operation: model.AuditOpCancel,
			OldValues: `{"status": "pending"}`,
			NewValues: `{"status": "cancelled"}`,
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityWarning,
		})
	})
	if err != nil {
		return nil, err
	}

	return payroll, nil
}
