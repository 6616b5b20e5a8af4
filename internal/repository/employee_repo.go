package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error)
	FindByNumber(ctx context.Context, number string) (*model.Employee, error)
	List(ctx context.Context, page, limit int, departmentID *uuid.UUID, status, search string) ([]model.Employee, int64, error)
	ListByManager(ctx context.Context, managerID uuid.UUID) ([]model.Employee, error)
	CountActiveByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Save(employee).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).
		Preload("Department").
		Preload("Manager").
		First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).
		Preload("Department").
		Preload("Manager").
		First(&employee, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByNumber(ctx context.Context, number string) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).First(&employee, "employee_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, page, limit int, departmentID *uuid.UUID, status, search string) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Employee{})
	if departmentID != nil {
		db = db.Where("department_id = ?", *departmentID)
	}
	if status != "" {
		db = db.Where("employment_status = ?", status)
	}
	if search != "" {
		db = db.Where("full_name ILIKE ? OR employee_number ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Department").
		Order("full_name ASC").
		Offset(offset).Limit(limit).
		Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) ListByManager(ctx context.Context, managerID uuid.UUID) ([]model.Employee, error) {
	var employees []model.Employee
	if err := GetDB(ctx, r.db).
		Preload("Department").
		Where("manager_id = ?", managerID).
		Order("full_name ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepository) CountActiveByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Employee{}).
		Where("department_id = ? AND is_active = ?", departmentID, true).
		Count(&total).Error
	return total, err
}
