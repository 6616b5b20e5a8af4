package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ManagerID   string `json:"manager_id"`
}

type UpdateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   string `json:"manager_id"`
	IsActive    *bool  `json:"is_active"`
}

type DepartmentService interface {
	CreateDepartment(ctx context.Context, actor Actor, req CreateDepartmentRequest) (*model.Department, error)
	GetDepartmentByID(ctx context.Context, id string) (*model.Department, error)
	ListDepartments(ctx context.Context, page, limit int) ([]model.Department, int64, error)
	UpdateDepartment(ctx context.Context, actor Actor, id string, req UpdateDepartmentRequest) (*model.Department, error)
	DeleteDepartment(ctx context.Context, actor Actor, id string) error
}

type departmentService struct {
	departmentRepo repository.DepartmentRepository
	employeeRepo   repository.EmployeeRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewDepartmentService(
	departmentRepo repository.DepartmentRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) DepartmentService {
	return &departmentService{
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

func (s *departmentService) resolveManager(ctx context.Context, managerID string) (*uuid.UUID, error) {
	if managerID == "" {
		return nil, nil
	}
	mid, err := uuid.Parse(managerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid manager id", ErrInvalidInput)
	}
	if _, err := s.employeeRepo.FindByID(ctx, mid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: manager employee not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &mid, nil
}

func (s *departmentService) CreateDepartment(ctx context.Context, actor Actor, req CreateDepartmentRequest) (*model.Department, error) {
	if _, err := s.departmentRepo.FindByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("%w: department name already in use", ErrDuplicate)
	}

	managerID, err := s.resolveManager(ctx, req.ManagerID)
	if err != nil {
		return nil, err
	}

	department := &model.Department{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   managerID,
		IsActive:    true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.departmentRepo.Create(txCtx, department); err != nil {
			return fmt.Errorf("failed to create department: %w", err)
		}

		newValues, _ := json.Marshal(req)
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "departments",
			RecordID:  department.ID.String(),
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

	return department, nil
}

func (s *departmentService) GetDepartmentByID(ctx context.Context, id string) (*model.Department, error) {
	did, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid department id", ErrInvalidInput)
	}

	department, err := s.departmentRepo.FindByID(ctx, did)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return department, nil
}

func (s *departmentService) ListDepartments(ctx context.Context, page, limit int) ([]model.Department, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.departmentRepo.List(ctx, page, limit)
}

func (s *departmentService) UpdateDepartment(ctx context.Context, actor Actor, id string, req UpdateDepartmentRequest) (*model.Department, error) {
	did, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid department id", ErrInvalidInput)
	}

	department, err := s.departmentRepo.FindByID(ctx, did)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"name": department.Name, "description": department.Description, "is_active": department.IsActive,
	})

	if req.Name != "" && req.Name != department.Name {
		if _, err := s.departmentRepo.FindByName(ctx, req.Name); err == nil {
			return nil, fmt.Errorf("%w: department name already in use", ErrDuplicate)
		}
		department.Name = req.Name
	}
	if req.Description != "" {
		department.Description = req.Description
	}
	if req.ManagerID != "" {
		managerID, err := s.resolveManager(ctx, req.ManagerID)
		if err != nil {
			return nil, err
		}
		department.ManagerID = managerID
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.departmentRepo.Update(txCtx, department); err != nil {
			return fmt.Errorf("failed to update department: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"name": department.Name, "description": department.Description, "is_active": department.IsActive,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "departments",
			RecordID:  department.ID.String(),
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

	return department, nil
}

// DeleteDepartment refuses while active employees are still assigned, so
// employee rows never point at a missing department.
func (s *departmentService) DeleteDepartment(ctx context.Context, actor Actor, id string) error {
	did, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid department id", ErrInvalidInput)
	}

	department, err := s.departmentRepo.FindByID(ctx, did)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	count, err := s.employeeRepo.CountActiveByDepartment(ctx, did)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: department has %d active employees", ErrInvalidInput, count)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.departmentRepo.Delete(txCtx, did); err != nil {
			return fmt.Errorf("failed to delete department: %w", err)
		}

		oldValues, _ := json.Marshal(map[string]string{"name": department.Name})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "departments",
			RecordID:  did.String(),
			Operation: model.AuditOpDelete,
			OldValues: string(oldValues),
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityWarning,
		})
	})
}
