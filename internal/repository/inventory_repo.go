package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryFilter narrows List results; zero values mean "no filter".
type InventoryFilter struct {
	Category string
	Brand    string
	Search   string
	LowStock bool
}

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByProductCode(ctx context.Context, code string) (*model.InventoryItem, error)
	List(ctx context.Context, page, limit int, filter InventoryFilter) ([]model.InventoryItem, int64, error)
	ListLowStock(ctx context.Context) ([]model.InventoryItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctBrands(ctx context.Context) ([]string, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.InventoryItem{}).Error
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate row-locks the item so concurrent stock adjustments
// serialize instead of losing updates. Only meaningful inside RunInTx.
func (r *inventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByProductCode(ctx context.Context, code string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).First(&item, "product_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, page, limit int, filter InventoryFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.InventoryItem{})
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Brand != "" {
		db = db.Where("brand = ?", filter.Brand)
	}
	if filter.Search != "" {
		db = db.Where("product_name ILIKE ? OR product_code ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.LowStock {
		db = db.Where("quantity_in_stock <= minimum_stock_level")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("product_name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := GetDB(ctx, r.db).
		Where("is_active = ? AND quantity_in_stock <= minimum_stock_level", true).
		Order("quantity_in_stock ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity_in_stock", quantity).Error
}

func (r *inventoryRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *inventoryRepository) DistinctBrands(ctx context.Context) ([]string, error) {
	var brands []string
	if err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Distinct("brand").
		Where("brand <> ''").
		Order("brand ASC").
		Pluck("brand", &brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}
