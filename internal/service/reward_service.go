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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateRewardRequest struct {
	EmployeeID    string          `json:"employee_id" binding:"required"`
	RewardType    string          `json:"reward_type" binding:"required"`
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	PointsAwarded int             `json:"points_awarded" binding:"gte=0"`
	MonetaryValue decimal.Decimal `json:"monetary_value"`
	RewardDate    string          `json:"reward_date"`
}

type RewardService interface {
	CreateReward(ctx context.Context, actor Actor, req CreateRewardRequest) (*model.Reward, error)
	GetRewardByID(ctx context.Context, id string) (*model.Reward, error)
	ListRewards(ctx context.Context, page, limit int, employeeID string) ([]model.Reward, int64, error)
	ListMyRewards(ctx context.Context, actor Actor) ([]model.Reward, error)
	ListEmployeeRewards(ctx context.Context, actor Actor, employeeID string) ([]model.Reward, error)
	RevokeReward(ctx context.Context, actor Actor, id string) (*model.Reward, error)
}

type rewardService struct {
	rewardRepo   repository.RewardRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewRewardService(
	rewardRepo repository.RewardRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) RewardService {
	return &rewardService{
		rewardRepo:   rewardRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// CreateReward writes the reward and credits the points onto the employee
// record in the same transaction.
func (s *rewardService) CreateReward(ctx context.Context, actor Actor, req CreateRewardRequest) (*model.Reward, error) {
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

	if req.MonetaryValue.IsNegative() {
		return nil, fmt.Errorf("%w: monetary value must not be negative", ErrInvalidInput)
	}

	rewardDate := time.Now()
	if parsed, err := parseOptionalDate(req.RewardDate, "reward_date"); err != nil {
		return nil, err
	} else if parsed != nil {
		rewardDate = *parsed
	}

	reward := &model.Reward{
		EmployeeID:    employeeID,
		RewardType:    req.RewardType,
		Title:         req.Title,
		Description:   req.Description,
		PointsAwarded: req.PointsAwarded,
		MonetaryValue: req.MonetaryValue,
		RewardDate:    rewardDate,
		AwardedBy:     actor.userUUID(),
		Status:        model.RewardStatusActive,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rewardRepo.Create(txCtx, reward); err != nil {
			return fmt.Errorf("failed to create reward: %w", err)
		}

		employee.RewardPoints += req.PointsAwarded
		if err := s.employeeRepo.Update(txCtx, employee); err != nil {
			return fmt.Errorf("failed to credit reward points: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"employee_id": reward.EmployeeID.String(),
			"title":       reward.Title,
			"points":      reward.PointsAwarded,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "rewards",
			RecordID:  reward.ID.String(),
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

	return reward, nil
}

func (s *rewardService) GetRewardByID(ctx context.Context, id string) (*model.Reward, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reward id", ErrInvalidInput)
	}

	reward, err := s.rewardRepo.FindByID(ctx, rid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return reward, nil
}

func (s *rewardService) ListRewards(ctx context.Context, page, limit int, employeeID string) ([]model.Reward, int64, error) {
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
	return s.rewardRepo.List(ctx, page, limit, eid)
}

func (s *rewardService) ListMyRewards(ctx context.Context, actor Actor) ([]model.Reward, error) {
	if actor.EmployeeID == "" {
		return []model.Reward{}, nil
	}
	employeeID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrInvalidInput)
	}
	return s.rewardRepo.ListByEmployee(ctx, employeeID)
}

// ListEmployeeRewards serves a specific employee's rewards. Allowed for the
// employee themselves, roles holding reward read, and the employee's direct
// manager.
func (s *rewardService) ListEmployeeRewards(ctx context.Context, actor Actor, employeeID string) ([]model.Reward, error) {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrInvalidInput)
	}

	if !authz.Owns(actor.EmployeeID, employeeID) && !authz.Can(authz.Role(actor.Role), authz.OpRewardRead) {
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
		if !authz.Manages(actor.EmployeeID, managerID) {
			return nil, ErrForbidden
		}
	}

	return s.rewardRepo.ListByEmployee(ctx, eid)
}

// RevokeReward marks the reward revoked and claws the points back, flooring
// the employee balance at zero.
func (s *rewardService) RevokeReward(ctx context.Context, actor Actor, id string) (*model.Reward, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reward id", ErrInvalidInput)
	}

	reward, err := s.rewardRepo.FindByID(ctx, rid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if reward.Status == model.RewardStatusRevoked {
		return nil, fmt.Errorf("%w: reward already revoked", ErrInvalidInput)
	}

	employee, err := s.employeeRepo.FindByID(ctx, reward.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	reward.Status = model.RewardStatusRevoked

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rewardRepo.Update(txCtx, reward); err != nil {
			return fmt.Errorf("failed to revoke reward: %w", err)
		}

		employee.RewardPoints -= reward.PointsAwarded
		if employee.RewardPoints < 0 {
			employee.RewardPoints = 0
		}
		if err := s.employeeRepo.Update(txCtx, employee); err != nil {
			return fmt.Errorf("failed to debit reward points: %w", err)
		}

		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "rewards",
			RecordID:  reward.ID.String(),
			Operation: model.AuditOpReject,
			OldValues: `{"status": "active"}`,
			NewValues: `{"status": "revoked"}`,
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

	return reward, nil
}
