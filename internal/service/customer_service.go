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

type CreateCustomerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	CompanyName  string `json:"company_name"`
	TaxNumber    string `json:"tax_number"`
	CustomerType string `json:"customer_type" binding:"omitempty,oneof=individual business"`
}

type UpdateCustomerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	CompanyName  string `json:"company_name"`
	TaxNumber    string `json:"tax_number"`
	CustomerType string `json:"customer_type" binding:"omitempty,oneof=individual business"`
	IsActive     *bool  `json:"is_active"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, actor Actor, req CreateCustomerRequest) (*model.Customer, error)
	GetCustomerByID(ctx context.Context, id string) (*model.Customer, error)
	ListCustomers(ctx context.Context, page, limit int, customerType, search string) ([]model.Customer, int64, error)
	UpdateCustomer(ctx context.Context, actor Actor, id string, req UpdateCustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, actor Actor, id string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CustomerService {
	return &customerService{customerRepo: customerRepo, auditRepo: auditRepo, txManager: txManager}
}

func (s *customerService) CreateCustomer(ctx context.Context, actor Actor, req CreateCustomerRequest) (*model.Customer, error) {
	if _, err := s.customerRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: customer email already in use", ErrDuplicate)
	}

	customerType := req.CustomerType
	if customerType == "" {
		customerType = model.CustomerTypeIndividual
	}
	if customerType == model.CustomerTypeBusiness && req.CompanyName == "" {
		return nil, fmt.Errorf("%w: business customers require a company name", ErrInvalidInput)
	}

	customer := &model.Customer{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		CompanyName:  req.CompanyName,
		TaxNumber:    req.TaxNumber,
		CustomerType: customerType,
		IsActive:     true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.customerRepo.Create(txCtx, customer); err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}

		newValues, _ := json.Marshal(req)
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "customers",
			RecordID:  customer.ID.String(),
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

	return customer, nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, id string) (*model.Customer, error) {
	cid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	customer, err := s.customerRepo.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, limit int, customerType, search string) ([]model.Customer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.customerRepo.List(ctx, page, limit, customerType, search)
}

func (s *customerService) UpdateCustomer(ctx context.Context, actor Actor, id string, req UpdateCustomerRequest) (*model.Customer, error) {
	cid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	customer, err := s.customerRepo.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"name": customer.Name, "email": customer.Email, "customer_type": customer.CustomerType,
		"is_active": customer.IsActive,
	})

	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.Email != "" && req.Email != customer.Email {
		if _, err := s.customerRepo.FindByEmail(ctx, req.Email); err == nil {
			return nil, fmt.Errorf("%w: customer email already in use", ErrDuplicate)
		}
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.CompanyName != "" {
		customer.CompanyName = req.CompanyName
	}
	if req.TaxNumber != "" {
		customer.TaxNumber = req.TaxNumber
	}
	if req.CustomerType != "" {
		if req.CustomerType == model.CustomerTypeBusiness && customer.CompanyName == "" {
			return nil, fmt.Errorf("%w: business customers require a company name", ErrInvalidInput)
		}
		customer.CustomerType = req.CustomerType
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.customerRepo.Update(txCtx, customer); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"name": customer.Name, "email": customer.Email, "customer_type": customer.CustomerType,
			"is_active": customer.IsActive,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "customers",
			RecordID:  customer.ID.String(),
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

	return customer, nil
}

// DeleteCustomer soft-deletes, keeping historical orders resolvable.
func (s *customerService) DeleteCustomer(ctx context.Context, actor Actor, id string) error {
	cid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	customer, err := s.customerRepo.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.customerRepo.Delete(txCtx, cid); err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}

		oldValues, _ := json.Marshal(map[string]string{"name": customer.Name, "email": customer.Email})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "customers",
			RecordID:  cid.String(),
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
