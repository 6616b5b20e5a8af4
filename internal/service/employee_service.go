package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateEmployeeRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	EmployeeNumber string `json:"employee_number" binding:"required"`
	FullName       string `json:"full_name" binding:"required"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	DepartmentID   string `json:"department_id"`
	Position       string `json:"position" binding:"required"`
	ManagerID      string `json:"manager_id"`
	HireDate       string `json:"hire_date"`
	SalaryGrade    string `json:"salary_grade"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	DepartmentID     string `json:"department_id"`
	Position         string `json:"position"`
	ManagerID        string `json:"manager_id"`
	SalaryGrade      string `json:"salary_grade"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=active suspended terminated"`
	BonusEligible    *bool  `json:"bonus_eligible"`
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, actor Actor, req CreateEmployeeRequest) (*model.Employee, error)
	GetEmployeeByID(ctx context.Context, actor Actor, id string) (*model.Employee, error)
	GetMyProfile(ctx context.Context, actor Actor) (*model.Employee, error)
	GetMyTeam(ctx context.Context, actor Actor) ([]model.Employee, error)
	ListEmployees(ctx context.Context, page, limit int, departmentID, status, search string) ([]model.Employee, int64, error)
	UpdateEmployee(ctx context.Context, actor Actor, id string, req UpdateEmployeeRequest) (*model.Employee, error)
}

type employeeService struct {
	employeeRepo   repository.EmployeeRepository
	userRepo       repository.UserRepository
	departmentRepo repository.DepartmentRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	userRepo repository.UserRepository,
	departmentRepo repository.DepartmentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) EmployeeService {
	return &employeeService{
		employeeRepo:   employeeRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

func parseOptionalUUID(value, label string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", ErrInvalidInput, label)
	}
	return &parsed, nil
}

func parseOptionalDate(value, label string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidInput, label)
	}
	return &parsed, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, actor Actor, req CreateEmployeeRequest) (*model.Employee, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if _, err := s.employeeRepo.FindByUserID(ctx, userID); err == nil {
		return nil, fmt.Errorf("%w: user already has an employee record", ErrDuplicate)
	}
	if _, err := s.employeeRepo.FindByNumber(ctx, req.EmployeeNumber); err == nil {
		return nil, fmt.Errorf("%w: employee number already in use", ErrDuplicate)
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

	managerID, err := parseOptionalUUID(req.ManagerID, "manager id")
	if err != nil {
		return nil, err
	}
	if managerID != nil {
		if _, err := s.employeeRepo.FindByID(ctx, *managerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: manager not found", ErrInvalidInput)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	hireDate, err := parseOptionalDate(req.HireDate, "hire_date")
	if err != nil {
		return nil, err
	}

	employee := &model.Employee{
		UserID:           userID,
		EmployeeNumber:   req.EmployeeNumber,
		FullName:         req.FullName,
		Phone:            req.Phone,
		Address:          req.Address,
		DepartmentID:     departmentID,
		Position:         req.Position,
		ManagerID:        managerID,
		HireDate:         hireDate,
		SalaryGrade:      req.SalaryGrade,
		EmploymentStatus: model.EmploymentActive,
		BonusEligible:    true,
		IsActive:         true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Create(txCtx, employee); err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}

		newValues, _ := json.Marshal(req)
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "employees",
			RecordID:  employee.ID.String(),
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

	return employee, nil
}

// GetEmployeeByID allows HR-tier readers plus two ownership overrides: the
// employee reading their own record, and their direct manager.
func (s *employeeService) GetEmployeeByID(ctx context.Context, actor Actor, id string) (*model.Employee, error) {
	eid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrInvalidInput)
	}

	employee, err := s.employeeRepo.FindByID(ctx, eid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	managerID := ""
	if employee.ManagerID != nil {
		managerID = employee.ManagerID.String()
	}
	if !authz.Can(authz.Role(actor.Role), authz.OpEmployeeRead) &&
		!authz.Owns(actor.EmployeeID, employee.ID.String()) &&
		!authz.Manages(actor.EmployeeID, managerID) {
		return nil, ErrForbidden
	}
	return employee, nil
}

func (s *employeeService) GetMyProfile(ctx context.Context, actor Actor) (*model.Employee, error) {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	employee, err := s.employeeRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return employee, nil
}

func (s *employeeService) GetMyTeam(ctx context.Context, actor Actor) ([]model.Employee, error) {
	if actor.EmployeeID == "" {
		return nil, ErrNotFound
	}
	managerID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrInvalidInput)
	}
	return s.employeeRepo.ListByManager(ctx, managerID)
}

func (s *employeeService) ListEmployees(ctx context.Context, page, limit int, departmentID, status, search string) ([]model.Employee, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	did, err := parseOptionalUUID(departmentID, "department id")
	if err != nil {
		return nil, 0, err
	}
	return s.employeeRepo.List(ctx, page, limit, did, status, search)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, actor Actor, id string, req UpdateEmployeeRequest) (*model.Employee, error) {
	eid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrInvalidInput)
	}

	employee, err := s.employeeRepo.FindByID(ctx, eid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"full_name": employee.FullName, "position": employee.Position,
		"employment_status": employee.EmploymentStatus,
	})

	if req.FullName != "" {
		employee.FullName = req.FullName
	}
	if req.Phone != "" {
		employee.Phone = req.Phone
	}
	if req.Address != "" {
		employee.Address = req.Address
	}
	if req.Position != "" {
		employee.Position = req.Position
	}
	if req.SalaryGrade != "" {
		employee.SalaryGrade = req.SalaryGrade
	}
	if req.DepartmentID != "" {
		departmentID, err := parseOptionalUUID(req.DepartmentID, "department id")
		if err != nil {
			return nil, err
		}
		if _, err := s.departmentRepo.FindByID(ctx, *departmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: department not found", ErrInvalidInput)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		employee.DepartmentID = departmentID
	}
	if req.ManagerID != "" {
		managerID, err := parseOptionalUUID(req.ManagerID, "manager id")
		if err != nil {
			return nil, err
		}
		if *managerID == employee.ID {
			return nil, fmt.Errorf("%w: employee cannot manage themselves", ErrInvalidInput)
		}
		if _, err := s.employeeRepo.FindByID(ctx, *managerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: manager not found", ErrInvalidInput)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		employee.ManagerID = managerID
	}
	if req.EmploymentStatus != "" {
		employee.EmploymentStatus = req.EmploymentStatus
		if req.EmploymentStatus == model.EmploymentTerminated {
			employee.IsActive = false
		}
	}
	if req.BonusEligible != nil {
		employee.BonusEligible = *req.BonusEligible
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Update(txCtx, employee); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"full_name": employee.FullName, "position": employee.Position,
			"employment_status": employee.EmploymentStatus,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "employees",
			RecordID:  employee.ID.String(),
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

	return employee, nil
}
