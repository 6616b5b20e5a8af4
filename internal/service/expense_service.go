package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/calc"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateExpenseRequest struct {
	ExpenseType   string          `json:"expense_type" binding:"required"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Description   string          `json:"description" binding:"required"`
	VendorName    string          `json:"vendor_name"`
	ExpenseDate   string          `json:"expense_date"`
	DueDate       string          `json:"due_date"`
	PaymentMethod string          `json:"payment_method"`
	DepartmentID  string          `json:"department_id"`
}

type UpdateExpenseRequest struct {
	ExpenseType   string           `json:"expense_type"`
	Category      string           `json:"category"`
	Amount        *decimal.Decimal `json:"amount"`
	TaxAmount     *decimal.Decimal `json:"tax_amount"`
	Description   string           `json:"description"`
	VendorName    string           `json:"vendor_name"`
	ExpenseDate   string           `json:"expense_date"`
	DueDate       string           `json:"due_date"`
	PaymentMethod string           `json:"payment_method"`
}

type ExpenseService interface {
	CreateExpense(ctx context.Context, actor Actor, req CreateExpenseRequest) (*model.Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*model.Expense, error)
	ListExpenses(ctx context.Context, page, limit int, status, expenseType string) ([]model.Expense, int64, error)
	UpdateExpense(ctx context.Context, actor Actor, id string, req UpdateExpenseRequest) (*model.Expense, error)
	ApproveExpense(ctx context.Context, actor Actor, id string) (*model.Expense, error)
	RejectExpense(ctx context.Context, actor Actor, id string) (*model.Expense, error)
	MarkExpensePaid(ctx context.Context, actor Actor, id string) (*model.Expense, error)
}

type expenseService struct {
	expenseRepo    repository.ExpenseRepository
	departmentRepo repository.DepartmentRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	departmentRepo repository.DepartmentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ExpenseService {
	return &expenseService{
		expenseRepo:    expenseRepo,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

func (s *expenseService) nextExpenseNumber(ctx context.Context, now time.Time) (string, error) {
	count, err := s.expenseRepo.CountForDay(ctx, now)
	if err != nil {
		return "", fmt.Errorf("failed to count expenses: %w", err)
	}
	return fmt.Sprintf("EXP-%s-%04d", now.Format("20060102"), count+1), nil
}

func (s *expenseService) CreateExpense(ctx context.Context, actor Actor, req CreateExpenseRequest) (*model.Expense, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if req.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: tax amount must not be negative", ErrInvalidInput)
	}

	departmentID, err := parseOptionalUUID(req.DepartmentID, "department id")
	if err != nil {
		return nil, err
	}
	if departmentID != nil {
		if _, err := s.departmentRepo.FindByID(ctx, *departmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: department not found", ErrInvalidInput)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	expenseDate := time.Now()
	if parsed, err := parseOptionalDate(req.ExpenseDate, "expense_date"); err != nil {
		return nil, err
	} else if parsed != nil {
		expenseDate = *parsed
	}

	dueDate, err := parseOptionalDate(req.DueDate, "due_date")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expense := &model.Expense{
		ExpenseType:   req.ExpenseType,
		Category:      req.Category,
		Amount:        calc.Round(req.Amount),
		TaxAmount:     calc.Round(req.TaxAmount),
		TotalAmount:   calc.Round(req.Amount.Add(req.TaxAmount)),
		Description:   req.Description,
		VendorName:    req.VendorName,
		ExpenseDate:   expenseDate,
		DueDate:       dueDate,
		SubmittedBy:   actor.userUUID(),
		Status:        model.ExpenseStatusPending,
		PaymentMethod: req.PaymentMethod,
		DepartmentID:  departmentID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.nextExpenseNumber(txCtx, now)
		if err != nil {
			return err
		}
		expense.ExpenseNumber = number

		if err := s.expenseRepo.Create(txCtx, expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"expense_number": expense.ExpenseNumber,
			"expense_type":   expense.ExpenseType,
			"total_amount":   expense.TotalAmount,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "expenses",
			RecordID:  expense.ID.String(),
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

	return expense, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	eid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense id", ErrInvalidInput)
	}

	expense, err := s.expenseRepo.FindByID(ctx, eid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, page, limit int, status, expenseType string) ([]model.Expense, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.expenseRepo.List(ctx, page, limit, status, expenseType)
}

// UpdateExpense edits a pending expense. Approved, rejected and paid
// expenses are frozen.
func (s *expenseService) UpdateExpense(ctx context.Context, actor Actor, id string, req UpdateExpenseRequest) (*model.Expense, error) {
	eid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense id", ErrInvalidInput)
	}

	expense, err := s.expenseRepo.FindByID(ctx, eid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if expense.Status != model.ExpenseStatusPending {
		return nil, fmt.Errorf("%w: only pending expenses can be updated", ErrInvalidInput)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"amount": expense.Amount, "tax_amount": expense.TaxAmount, "total_amount": expense.TotalAmount,
	})

	if req.ExpenseType != "" {
		expense.ExpenseType = req.ExpenseType
	}
	if req.Category != "" {
		expense.Category = req.Category
	}
	if req.Description != "" {
		expense.Description = req.Description
	}
	if req.VendorName != "" {
		expense.VendorName = req.VendorName
	}
	if req.PaymentMethod != "" {
		expense.PaymentMethod = req.PaymentMethod
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
		}
		expense.Amount = calc.Round(*req.Amount)
	}
	if req.TaxAmount != nil {
		if req.TaxAmount.IsNegative() {
			return nil, fmt.Errorf("%w: tax amount must not be negative", ErrInvalidInput)
		}
		expense.TaxAmount = calc.Round(*req.TaxAmount)
	}
	expense.TotalAmount = calc.Round(expense.Amount.Add(expense.TaxAmount))

	if parsed, err := parseOptionalDate(req.ExpenseDate, "expense_date"); err != nil {
		return nil, err
	} else if parsed != nil {
		expense.ExpenseDate = *parsed
	}
	if parsed, err := parseOptionalDate(req.DueDate, "due_date"); err != nil {
		return nil, err
	} else if parsed != nil {
		expense.DueDate = parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Update(txCtx, expense); err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"amount": expense.Amount, "tax_amount": expense.TaxAmount, "total_amount": expense.TotalAmount,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "expenses",
			RecordID:  expense.ID.String(),
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

	return expense, nil
}

func (s *expenseService) ApproveExpense(ctx context.Context, actor Actor, id string) (*model.Expense, error) {
	return s.transition(ctx, actor, id, model.ExpenseStatusPending, model.ExpenseStatusApproved, model.AuditOpApprove)
}

func (s *expenseService) RejectExpense(ctx context.Context, actor Actor, id string) (*model.Expense, error) {
	return s.transition(ctx, actor, id, model.ExpenseStatusPending, model.ExpenseStatusRejected, model.AuditOpReject)
}

func (s *expenseService) MarkExpensePaid(ctx context.Context, actor Actor, id string) (*model.Expense, error) {
	return s.transition(ctx, actor, id, model.ExpenseStatusApproved, model.ExpenseStatusPaid, model.AuditOpUpdate)
}

func (s *expenseService) transition(ctx context.Context, actor Actor, id, from, to, op string) (*model.Expense, error) {
	eid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense id", ErrInvalidInput)
	}

	expense, err := s.expenseRepo.FindByID(ctx, eid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if expense.Status != from {
		return nil, fmt.Errorf("%w: expense is %s, expected %s", ErrInvalidInput, expense.Status, from)
	}

	oldStatus := expense.Status
	expense.Status = to
	if to == model.ExpenseStatusApproved || to == model.ExpenseStatusRejected {
		now := time.Now()
		expense.ApprovedBy = actor.userUUID()
		expense.ApprovalDate = &now
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Update(txCtx, expense); err != nil {
			return fmt.Errorf("failed to update expense status: %w", err)
		}

		oldValues, _ := json.Marshal(map[string]string{"status": oldStatus})
		newValues, _ := json.Marshal(map[string]string{"status": to})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "expenses",
			RecordID:  expense.ID.String(),
			Operation: op,
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

	return expense, nil
}
