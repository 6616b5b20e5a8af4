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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int, role, search string) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor Actor, id string, req UpdateUserRequest) (*UserResponse, error)
	DeactivateUser(ctx context.Context, actor Actor, id string) error
	UnlockUser(ctx context.Context, actor Actor, id string) error
	ListRoles(ctx context.Context) []string
}

type userService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

// NewUserService returns a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) UserService {
	return &userService{userRepo: userRepo, auditRepo: auditRepo, txManager: txManager}
}

// Helper: parse model to standard json API response
func mapUserToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*UserResponse, error) {
	if !authz.Valid(authz.Role(req.Role)) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", ErrDuplicate)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		newValues, _ := json.Marshal(map[string]string{"email": user.Email, "role": user.Role})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "users",
			RecordID:  user.ID.String(),
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

	return mapUserToResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return mapUserToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int, role, search string) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, total, err := s.userRepo.List(ctx, page, limit, role, search)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapUserToResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, id string, req UpdateUserRequest) (*UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"email": user.Email, "role": user.Role, "is_active": user.IsActive,
	})

	if req.Role != "" {
		if !authz.Valid(authz.Role(req.Role)) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
		}
		user.Role = req.Role
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
			return nil, fmt.Errorf("%w: email already in use", ErrDuplicate)
		}
		user.Email = req.Email
	}
	if req.IsActive != nil {
		// Deactivating yourself goes through DeactivateUser, which refuses.
		if !*req.IsActive && actor.UserID == user.ID.String() {
			return nil, ErrSelfDeletion
		}
		user.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"email": user.Email, "role": user.Role, "is_active": user.IsActive,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "users",
			RecordID:  user.ID.String(),
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

	return mapUserToResponse(user), nil
}

// DeactivateUser disables the account instead of deleting the row, keeping
// audit history intact. Self-deactivation is always refused, whatever the
// actor's role.
func (s *userService) DeactivateUser(ctx context.Context, actor Actor, id string) error {
	if !authz.CanDeleteUser(authz.Role(actor.Role), actor.UserID, id) {
		if actor.UserID == id {
			return ErrSelfDeletion
		}
		return ErrForbidden
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	user.IsActive = false

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to deactivate user: %w", err)
		}

		if err := s.userRepo.DeleteRefreshTokensForUser(txCtx, user.ID); err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}

		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName:   "users",
			RecordID:    user.ID.String(),
			Operation:   model.AuditOpDelete,
			OldValues:   `{"is_active": true}`,
			NewValues:   `{"is_active": false}`,
			UserID:      actor.userUUID(),
			UserEmail:   actor.Email,
			IPAddress:   actor.IPAddress,
			UserAgent:   actor.UserAgent,
			Description: "account deactivated",
			Severity:    model.AuditSeverityWarning,
		})
	})
}

func (s *userService) UnlockUser(ctx context.Context, actor Actor, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	user.FailedLoginAttempts = 0
	user.AccountLockedUntil = nil

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to unlock user: %w", err)
		}

		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName:   "users",
			RecordID:    user.ID.String(),
			Operation:   model.AuditOpAccountUnlocked,
			UserID:      actor.userUUID(),
			UserEmail:   actor.Email,
			IPAddress:   actor.IPAddress,
			UserAgent:   actor.UserAgent,
			Description: "account unlocked by administrator",
			Severity:    model.AuditSeverityInfo,
		})
	})
}

func (s *userService) ListRoles(ctx context.Context) []string {
	roles := make([]string, 0, len(authz.AllRoles))
	for _, r := range authz.AllRoles {
		roles = append(roles, string(r))
	}
	return roles
}
