package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newPayrollFixture(t *testing.T) (PayrollService, *fakePayrollRepo, *model.Employee) {
	t.Helper()

	payrollRepo := newFakePayrollRepo()
	employeeRepo := newFakeEmployeeRepo()
	auditRepo := newFakeAuditRepo()

	employee := &model.Employee{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		EmployeeNumber:   "EMP-0001",
		EmploymentStatus: model.EmploymentActive,
		IsActive:         true,
	}
	employeeRepo.employees[employee.ID] = employee

	svc := NewPayrollService(payrollRepo, employeeRepo, auditRepo, &fakeTxManager{})
	return svc, payrollRepo, employee
}

func basePayrollRequest(employeeID string) CreatePayrollRequest {
	return CreatePayrollRequest{
		EmployeeID:         employeeID,
		PayPeriodStart:     "2026-01-01",
		PayPeriodEnd:       "2026-01-31",
		BaseSalary:         decimal.RequireFromString("3000"),
		OvertimeHours:      decimal.RequireFromString("10"),
		OvertimeRate:       decimal.RequireFromString("25.50"),
		Bonus:              decimal.RequireFromString("200"),
		TaxDeduction:       decimal.RequireFromString("450"),
		InsuranceDeduction: decimal.RequireFromString("120"),
	}
}

func TestCreatePayrollComputesTotals(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)

	payroll, err := svc.CreatePayroll(context.Background(), testActor(), basePayrollRequest(employee.ID.String()))
	if err != nil {
		t.Fatalf("CreatePayroll() error = %v", err)
	}

	if !payroll.OvertimePay.Equal(decimal.RequireFromString("255.00")) {
		t.Errorf("overtime = %s, want 255.00", payroll.OvertimePay)
	}
	if !payroll.GrossSalary.Equal(decimal.RequireFromString("3455.00")) {
		t.Errorf("gross = %s, want 3455.00", payroll.GrossSalary)
	}
	if !payroll.TotalDeductions.Equal(decimal.RequireFromString("570.00")) {
		t.Errorf("deductions = %s, want 570.00", payroll.TotalDeductions)
	}
	if !payroll.NetSalary.Equal(decimal.RequireFromString("2885.00")) {
		t.Errorf("net = %s, want 2885.00", payroll.NetSalary)
	}
	if payroll.Status != model.PayrollStatusPending {
		t.Errorf("status = %q, want pending", payroll.Status)
	}
	if payroll.PaymentMethod != "bank_transfer" {
		t.Errorf("payment method = %q, want bank_transfer default", payroll.PaymentMethod)
	}
}

func TestCreatePayrollDuplicatePeriod(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)
	ctx := context.Background()

	if _, err := svc.CreatePayroll(ctx, testActor(), basePayrollRequest(employee.ID.String())); err != nil {
		t.Fatalf("first CreatePayroll() error = %v", err)
	}

	_, err := svc.CreatePayroll(ctx, testActor(), basePayrollRequest(employee.ID.String()))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second CreatePayroll() error = %v, want ErrDuplicate", err)
	}
}

func TestCreatePayrollNegativeAmount(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)

	req := basePayrollRequest(employee.ID.String())
	req.Bonus = decimal.RequireFromString("-50")

	if _, err := svc.CreatePayroll(context.Background(), testActor(), req); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CreatePayroll() error = %v, want ErrInvalidInput", err)
	}
}

func TestCreatePayrollPeriodEndBeforeStart(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)

	req := basePayrollRequest(employee.ID.String())
	req.PayPeriodStart = "2026-02-01"
	req.PayPeriodEnd = "2026-01-01"

	if _, err := svc.CreatePayroll(context.Background(), testActor(), req); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CreatePayroll() error = %v, want ErrInvalidInput", err)
	}
}

func TestCreatePayrollTerminatedEmployee(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)
	employee.EmploymentStatus = model.EmploymentTerminated

	if _, err := svc.CreatePayroll(context.Background(), testActor(), basePayrollRequest(employee.ID.String())); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CreatePayroll() error = %v, want ErrInvalidInput", err)
	}
}

func TestApprovePayroll(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)
	ctx := context.Background()
	actor := testActor()

	payroll, err := svc.CreatePayroll(ctx, actor, basePayrollRequest(employee.ID.String()))
	if err != nil {
		t.Fatalf("CreatePayroll() error = %v", err)
	}

	approved, err := svc.ApprovePayroll(ctx, actor, payroll.ID.String())
	if err != nil {
		t.Fatalf("ApprovePayroll() error = %v", err)
	}
	if approved.Status != model.PayrollStatusPaid {
		t.Errorf("status = %q, want paid", approved.Status)
	}
	if approved.PaymentDate == nil {
		t.Error("expected payment date to be stamped")
	}
	if approved.ApprovedBy == nil || approved.ApprovedBy.String() != actor.UserID {
		t.Error("expected approver to be recorded")
	}

	// A paid record can be approved only once.
	if _, err := svc.ApprovePayroll(ctx, actor, payroll.ID.String()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second approve error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdatePayrollAfterApproval(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)
	ctx := context.Background()
	actor := testActor()

	payroll, err := svc.CreatePayroll(ctx, actor, basePayrollRequest(employee.ID.String()))
	if err != nil {
		t.Fatalf("CreatePayroll() error = %v", err)
	}
	if _, err := svc.ApprovePayroll(ctx, actor, payroll.ID.String()); err != nil {
		t.Fatalf("ApprovePayroll() error = %v", err)
	}

	bonus := decimal.RequireFromString("500")
	_, err = svc.UpdatePayroll(ctx, actor, payroll.ID.String(), UpdatePayrollRequest{Bonus: &bonus})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("UpdatePayroll() error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdatePayrollRecomputesTotals(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)
	ctx := context.Background()
	actor := testActor()

	payroll, err := svc.CreatePayroll(ctx, actor, basePayrollRequest(employee.ID.String()))
	if err != nil {
		t.Fatalf("CreatePayroll() error = %v", err)
	}

	bonus := decimal.RequireFromString("700")
	updated, err := svc.UpdatePayroll(ctx, actor, payroll.ID.String(), UpdatePayrollRequest{Bonus: &bonus})
	if err != nil {
		t.Fatalf("UpdatePayroll() error = %v", err)
	}
	if !updated.GrossSalary.Equal(decimal.RequireFromString("3955.00")) {
		t.Errorf("gross = %s, want 3955.00", updated.GrossSalary)
	}
	if !updated.NetSalary.Equal(decimal.RequireFromString("3385.00")) {
		t.Errorf("net = %s, want 3385.00", updated.NetSalary)
	}
}

func TestGetPayrollByIDOwnership(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)
	ctx := context.Background()

	payroll, err := svc.CreatePayroll(ctx, testActor(), basePayrollRequest(employee.ID.String()))
	if err != nil {
		t.Fatalf("CreatePayroll() error = %v", err)
	}

	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{
			name:  "payroll-tier role",
			actor: Actor{UserID: uuid.NewString(), Role: "finance_manager"},
		},
		{
			name:  "record owner",
			actor: Actor{UserID: uuid.NewString(), Role: "employee", EmployeeID: employee.ID.String()},
		},
		{
			name:    "other employee",
			actor:   Actor{UserID: uuid.NewString(), Role: "employee", EmployeeID: uuid.NewString()},
			wantErr: ErrForbidden,
		},
		{
			name:    "sales rep",
			actor:   Actor{UserID: uuid.NewString(), Role: "sales_rep", EmployeeID: uuid.NewString()},
			wantErr: ErrForbidden,
		},
		{
			name:    "unrecognized role",
			actor:   Actor{UserID: uuid.NewString(), Role: "superuser"},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetPayrollByID(ctx, tt.actor, payroll.ID.String())
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("GetPayrollByID() error = %v", err)
				}
				if got.ID != payroll.ID {
					t.Errorf("got record %s, want %s", got.ID, payroll.ID)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetPayrollByID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCancelPayroll(t *testing.T) {
	svc, _, employee := newPayrollFixture(t)
	ctx := context.Background()
	actor := testActor()

	payroll, err := svc.CreatePayroll(ctx, actor, basePayrollRequest(employee.ID.String()))
	if err != nil {
		t.Fatalf("CreatePayroll() error = %v", err)
	}

	cancelled, err := svc.CancelPayroll(ctx, actor, payroll.ID.String())
	if err != nil {
		t.Fatalf("CancelPayroll() error = %v", err)
	}
	if cancelled.Status != model.PayrollStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
}
