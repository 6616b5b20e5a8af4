package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardRepository interface {
	Create(ctx context.Context, reward *model.Reward) error
	Update(ctx context.Context, reward *model.Reward) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reward, error)
	List(ctx context.Context, page, limit int, employeeID *uuid.UUID) ([]model.Reward, int64, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Reward, error)
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Create(ctx context.Context, reward *model.Reward) error {
	return GetDB(ctx, r.db).Create(reward).Error
}

func (r *rewardRepository) Update(ctx context.Context, reward *model.Reward) error {
	return GetDB(ctx, r.db).Save(reward).Error
}

func (r *rewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	var reward model.Reward
	if err := GetDB(ctx, r.db).Preload("Employee").First(&reward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) List(ctx context.Context, page, limit int, employeeID *uuid.UUID) ([]model.Reward, int64, error) {
	var rewards []model.Reward
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Reward{})
	if employeeID != nil {
		db = db.Where("employee_id = ?", *employeeID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Employee").
		Order("reward_date DESC").
		Offset(offset).Limit(limit).
		Find(&rewards).Error; err != nil {
		return nil, 0, err
	}

	return rewards, total, nil
}

func (r *rewardRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Reward, error) {
	var rewards []model.Reward
	if err := GetDB(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("reward_date DESC").
		Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}
