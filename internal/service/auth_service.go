package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 30 * time.Minute
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DTOs for Request validation
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles login, token refresh and the session-scoped account
// operations.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*TokenResponse, *UserResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, actor Actor, refreshToken string) error
	Profile(ctx context.Context, userID string) (*UserResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error
}

type authService struct {
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	jwtSecret    []byte
}

func NewAuthService(
	userRepo repository.UserRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	jwtSecret []byte,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		jwtSecret:    jwtSecret,
	}
}

func (s *authService) signAccessToken(user *model.User, employeeID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"role":  user.Role,
		"email": user.Email,
		"exp":   time.Now().Add(accessTokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	if employeeID != "" {
		claims["employee_id"] = employeeID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// employeeIDFor resolves the employee record backing a user account; users
// without one (e.g. customer_support contractors) get an empty claim.
func (s *authService) employeeIDFor(ctx context.Context, userID uuid.UUID) string {
	employee, err := s.employeeRepo.FindByUserID(ctx, userID)
	if err != nil {
		return ""
	}
	return employee.ID.String()
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	employeeID := s.employeeIDFor(ctx, user.ID)

	accessToken, err := s.signAccessToken(user, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.userRepo.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{Token: accessToken, RefreshToken: refresh.Token}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*TokenResponse, *UserResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	now := time.Now()
	if user.IsLocked(now) {
		return nil, nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		lockErr := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			user.FailedLoginAttempts++
			if user.FailedLoginAttempts >= maxFailedLogins {
				lockedUntil := now.Add(lockoutDuration)
				user.AccountLockedUntil = &lockedUntil
			}
			if err := s.userRepo.Update(txCtx, user); err != nil {
				return err
			}

			return s.auditRepo.Create(txCtx, &model.AuditLog{
				TableName:   "users",
				RecordID:    user.ID.String(),
				Operation:   model.AuditOpLoginFailed,
				UserEmail:   user.Email,
				IPAddress:   ip,
				UserAgent:   userAgent,
				Description: fmt.Sprintf("failed login attempt %d", user.FailedLoginAttempts),
				Severity:    model.AuditSeverityWarning,
			})
		})
		if lockErr != nil {
			return nil, nil, fmt.Errorf("failed to record login failure: %w", lockErr)
		}
		if user.IsLocked(now) {
			return nil, nil, ErrAccountLocked
		}
		return nil, nil, ErrInvalidCredentials
	}

	var tokens *TokenResponse
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user.FailedLoginAttempts = 0
		user.AccountLockedUntil = nil
		user.LastLogin = &now
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		tokens, err = s.issueTokens(txCtx, user)
		if err != nil {
			return err
		}

		uid := user.ID
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "users",
			RecordID:  user.ID.String(),
			Operation: model.AuditOpLogin,
			UserID:    &uid,
			UserEmail: user.Email,
			IPAddress: ip,
			UserAgent: userAgent,
			Severity:  model.AuditSeverityInfo,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	return tokens, mapUserToResponse(user), nil
}

func (s *authService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(ctx, stored.Token)
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// Rotate: the presented token is single-use.
	var tokens *TokenResponse
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.DeleteRefreshToken(txCtx, stored.Token); err != nil {
			return fmt.Errorf("failed to rotate refresh token: %w", err)
		}
		tokens, err = s.issueTokens(txCtx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, actor Actor, refreshToken string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if refreshToken != "" {
			if err := s.userRepo.DeleteRefreshToken(txCtx, refreshToken); err != nil {
				return fmt.Errorf("failed to delete refresh token: %w", err)
			}
		}

		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "users",
			RecordID:  actor.UserID,
			Operation: model.AuditOpLogout,
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityInfo,
		})
	})
}

func (s *authService) Profile(ctx context.Context, userID string) (*UserResponse, error) {
	uid, err := uuid.Parse(userID)
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

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error {
	uid, err := uuid.Parse(actor.UserID)
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

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		// Force re-login everywhere else.
		if err := s.userRepo.DeleteRefreshTokensForUser(txCtx, user.ID); err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}

		details, _ := json.Marshal(map[string]string{"user_id": user.ID.String()})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName:   "users",
			RecordID:    user.ID.String(),
			Operation:   model.AuditOpPasswordChanged,
			NewValues:   string(details),
			UserID:      actor.userUUID(),
			UserEmail:   actor.Email,
			IPAddress:   actor.IPAddress,
			UserAgent:   actor.UserAgent,
			Severity:    model.AuditSeverityWarning,
			Description: "password changed",
		})
	})
}
