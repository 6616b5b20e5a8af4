package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayrollRepository interface {
	Create(ctx context.Context, payroll *model.Payroll) error
	Update(ctx context.Context, payroll *model.Payroll) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, periodStart, periodEnd time.Time) (*model.Payroll, error)
	List(ctx context.Context, page, limit int, employeeID *uuid.UUID, status string) ([]model.Payroll, int64, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Payroll, error)
}

type payrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) Create(ctx context.Context, payroll *model.Payroll) error {
	return GetDB(ctx, r.db).Create(payroll).Error
}

func (r *payrollRepository) Update(ctx context.Context, payroll *model.Payroll) error {
	return GetDB(ctx, r.db).Save(payroll).Error
}

func (r *payrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error) {
	var payroll model.Payroll
	if err := GetDB(ctx, r.db).
		Preload("Employee").
		First(&payroll, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *payrollRepository) FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, periodStart, periodEnd time.Time) (*model.Payroll, error) {
	var payroll model.Payroll
	if err := GetDB(ctx, r.db).
		Where("employee_id = ? AND pay_period_start = ? AND pay_period_end = ?", employeeID, periodStart, periodEnd).
		First(&payroll).Error; err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *payrollRepository) List(ctx context.Context, page, limit int, employeeID *uuid.UUID, status string) ([]model.Payroll, int64, error) {
	var payrolls []model.Payroll
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Payroll{})
	if employeeID != nil {
		db = db.Where("employee_id = ?", *employeeID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Employee").
		Order("pay_period_start DESC").
		Offset(offset).Limit(limit).
		Find(&payrolls).Error; err != nil {
		return nil, 0, err
	}

	return payrolls, total, nil
}

func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Payroll, error) {
	var payrolls []model.Payroll
	if err := GetDB(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("pay_period_start DESC").
		Find(&payrolls).Error; err != nil {
		return nil, err
	}
	return payrolls, nil
}
