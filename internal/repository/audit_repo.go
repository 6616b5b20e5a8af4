package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows List results; zero values mean "no filter".
type AuditFilter struct {
	TableName string
	Operation string
	UserEmail string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, page, limit int, filter AuditFilter) ([]model.AuditLog, int64, error)
	ListByRecord(ctx context.Context, tableName, recordID string) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, page, limit int, filter AuditFilter) ([]model.AuditLog, int64, error) {
	var entries []model.AuditLog
	var total int64

	db := GetDB(ctx, r.db).Model(&model.AuditLog{})
	if filter.TableName != "" {
		db = db.Where("table_name = ?", filter.TableName)
	}
	if filter.Operation != "" {
		db = db.Where("operation = ?", filter.Operation)
	}
	if filter.UserEmail != "" {
		db = db.Where("user_email = ?", filter.UserEmail)
	}
	if filter.DateFrom != nil {
		db = db.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		db = db.Where("created_at <= ?", *filter.DateTo)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *auditRepository) ListByRecord(ctx context.Context, tableName, recordID string) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if err := GetDB(ctx, r.db).
		Where("table_name = ? AND record_id = ?", tableName, recordID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
