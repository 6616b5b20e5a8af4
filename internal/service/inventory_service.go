package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/calc"
	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateInventoryItemRequest struct {
	ProductCode       string          `json:"product_code" binding:"required"`
	ProductName       string          `json:"product_name" binding:"required"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Brand             string          `json:"brand"`
	QuantityInStock   int             `json:"quantity_in_stock" binding:"gte=0"`
	MinimumStockLevel int             `json:"minimum_stock_level" binding:"gte=0"`
	ReorderPoint      *int            `json:"reorder_point"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	Barcode           string          `json:"barcode"`
	SupplierName      string          `json:"supplier_name"`
	SupplierContact   string          `json:"supplier_contact"`
}

type UpdateInventoryItemRequest struct {
	ProductName       string           `json:"product_name"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	Brand             string           `json:"brand"`
	MinimumStockLevel *int             `json:"minimum_stock_level" binding:"omitempty,gte=0"`
	ReorderPoint      *int             `json:"reorder_point"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	UnitOfMeasure     string           `json:"unit_of_measure"`
	Barcode           string           `json:"barcode"`
	SupplierName      string           `json:"supplier_name"`
	SupplierContact   string           `json:"supplier_contact"`
	IsActive          *bool            `json:"is_active"`
	IsDiscontinued    *bool            `json:"is_discontinued"`
}

type AdjustStockRequest struct {
	AdjustmentType string `json:"adjustment_type" binding:"required,oneof=add subtract set"`
	Quantity       int    `json:"quantity" binding:"required,gte=0"`
	Reason         string `json:"reason"`
}

// InventoryItemResponse is the stored item plus its derived fields.
type InventoryItemResponse struct {
	model.InventoryItem
	StockStatus  calc.StockStatus `json:"stock_status"`
	ProfitMargin decimal.Decimal  `json:"profit_margin"`
	StockValue   decimal.Decimal  `json:"stock_value"`
}

// Websocket payload
type InventoryEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

type InventoryService interface {
	CreateItem(ctx context.Context, actor Actor, req CreateInventoryItemRequest) (*InventoryItemResponse, error)
	GetItemByID(ctx context.Context, id string) (*InventoryItemResponse, error)
	ListItems(ctx context.Context, page, limit int, filter repository.InventoryFilter) ([]InventoryItemResponse, int64, error)
	ListLowStock(ctx context.Context) ([]InventoryItemResponse, error)
	UpdateItem(ctx context.Context, actor Actor, id string, req UpdateInventoryItemRequest) (*InventoryItemResponse, error)
	DeleteItem(ctx context.Context, actor Actor, id string) error
	AdjustStock(ctx context.Context, actor Actor, id string, req AdjustStockRequest) (*InventoryItemResponse, error)
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
}

type inventoryService struct {
	inventoryRepo    repository.InventoryRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	auditRepo        repository.AuditRepository
	txManager        repository.TransactionManager
	hub              *ws.Hub
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		inventoryRepo:    inventoryRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
		hub:              hub,
	}
}

func mapItemToResponse(item *model.InventoryItem) *InventoryItemResponse {
	return &InventoryItemResponse{
		InventoryItem: *item,
		StockStatus:   calc.EvaluateStock(item.QuantityInStock, item.MinimumStockLevel),
		ProfitMargin:  calc.ProfitMargin(item.CostPrice, item.SellingPrice),
		StockValue:    calc.StockValue(item.QuantityInStock, item.CostPrice),
	}
}

func (s *inventoryService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(InventoryEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func (s *inventoryService) CreateItem(ctx context.Context, actor Actor, req CreateInventoryItemRequest) (*InventoryItemResponse, error) {
	if _, err := s.inventoryRepo.FindByProductCode(ctx, req.ProductCode); err == nil {
		return nil, fmt.Errorf("%w: product code already in use", ErrDuplicate)
	}
	if req.CostPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}

	unit := req.UnitOfMeasure
	if unit == "" {
		unit = "piece"
	}

	item := &model.InventoryItem{
		ProductCode:       req.ProductCode,
		ProductName:       req.ProductName,
		Description:       req.Description,
		Category:          req.Category,
		Brand:             req.Brand,
		QuantityInStock:   req.QuantityInStock,
		MinimumStockLevel: req.MinimumStockLevel,
		ReorderPoint:      req.ReorderPoint,
		CostPrice:         req.CostPrice,
		SellingPrice:      req.SellingPrice,
		UnitOfMeasure:     unit,
		Barcode:           req.Barcode,
		SupplierName:      req.SupplierName,
		SupplierContact:   req.SupplierContact,
		IsActive:          true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.inventoryRepo.Create(txCtx, item); err != nil {
			return fmt.Errorf("failed to create inventory item: %w", err)
		}

		newValues, _ := json.Marshal(req)
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "inventory_items",
			RecordID:  item.ID.String(),
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

	return mapItemToResponse(item), nil
}

func (s *inventoryService) GetItemByID(ctx context.Context, id string) (*InventoryItemResponse, error) {
	iid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item id", ErrInvalidInput)
	}

	item, err := s.inventoryRepo.FindByID(ctx, iid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return mapItemToResponse(item), nil
}

func (s *inventoryService) ListItems(ctx context.Context, page, limit int, filter repository.InventoryFilter) ([]InventoryItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.inventoryRepo.List(ctx, page, limit, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *mapItemToResponse(&items[i]))
	}
	return responses, total, nil
}

func (s *inventoryService) ListLowStock(ctx context.Context) ([]InventoryItemResponse, error) {
	items, err := s.inventoryRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *mapItemToResponse(&items[i]))
	}
	return responses, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, actor Actor, id string, req UpdateInventoryItemRequest) (*InventoryItemResponse, error) {
	iid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item id", ErrInvalidInput)
	}

	item, err := s.inventoryRepo.FindByID(ctx, iid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"product_name": item.ProductName, "cost_price": item.CostPrice,
		"selling_price": item.SellingPrice, "minimum_stock_level": item.MinimumStockLevel,
	})

	if req.ProductName != "" {
		item.ProductName = req.ProductName
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Brand != "" {
		item.Brand = req.Brand
	}
	if req.MinimumStockLevel != nil {
		item.MinimumStockLevel = *req.MinimumStockLevel
	}
	if req.ReorderPoint != nil {
		item.ReorderPoint = req.ReorderPoint
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, fmt.Errorf("%w: cost price must not be negative", ErrInvalidInput)
		}
		item.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, fmt.Errorf("%w: selling price must not be negative", ErrInvalidInput)
		}
		item.SellingPrice = *req.SellingPrice
	}
	if req.UnitOfMeasure != "" {
		item.UnitOfMeasure = req.UnitOfMeasure
	}
	if req.Barcode != "" {
		item.Barcode = req.Barcode
	}
	if req.SupplierName != "" {
		item.SupplierName = req.SupplierName
	}
	if req.SupplierContact != "" {
		item.SupplierContact = req.SupplierContact
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if req.IsDiscontinued != nil {
		item.IsDiscontinued = *req.IsDiscontinued
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.inventoryRepo.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update inventory item: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"product_name": item.ProductName, "cost_price": item.CostPrice,
			"selling_price": item.SellingPrice, "minimum_stock_level": item.MinimumStockLevel,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "inventory_items",
			RecordID:  item.ID.String(),
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

	return mapItemToResponse(item), nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, actor Actor, id string) error {
	iid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid item id", ErrInvalidInput)
	}

	item, err := s.inventoryRepo.FindByID(ctx, iid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.inventoryRepo.Delete(txCtx, iid); err != nil {
			return fmt.Errorf("failed to delete inventory item: %w", err)
		}

		oldValues, _ := json.Marshal(map[string]string{
			"product_code": item.ProductCode, "product_name": item.ProductName,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "inventory_items",
			RecordID:  iid.String(),
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

// AdjustStock applies an add/subtract/set movement under a row lock, writes
// the before/after snapshot to the audit log and pushes a warning to the
// warehouse managers when the result is at or below the minimum level.
func (s *inventoryService) AdjustStock(ctx context.Context, actor Actor, id string, req AdjustStockRequest) (*InventoryItemResponse, error) {
	iid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item id", ErrInvalidInput)
	}

	var item *model.InventoryItem
	var status calc.StockStatus
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err = s.inventoryRepo.FindByIDForUpdate(txCtx, iid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		before := item.QuantityInStock
		after, err := calc.AdjustStock(before, calc.AdjustmentType(req.AdjustmentType), req.Quantity)
		if err != nil {
			return err
		}

		item.QuantityInStock = after
		if req.AdjustmentType == string(calc.AdjustAdd) {
			now := time.Now()
			item.LastRestockedDate = &now
		}
		if err := s.inventoryRepo.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}

		oldValues, _ := json.Marshal(map[string]int{"quantity_in_stock": before})
		newValues, _ := json.Marshal(map[string]interface{}{
			"quantity_in_stock": after,
			"adjustment_type":   req.AdjustmentType,
			"quantity":          req.Quantity,
			"reason":            req.Reason,
		})
		if err := s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "inventory_items",
			RecordID:  item.ID.String(),
			Operation: model.AuditOpStockAdjustment,
			OldValues: string(oldValues),
			NewValues: string(newValues),
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityInfo,
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		status = calc.EvaluateStock(after, item.MinimumStockLevel)
		if status != calc.StockOK {
			return s.notifyLowStock(txCtx, item, status)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status != calc.StockOK {
		s.broadcast("stock_low", map[string]interface{}{
			"product_code": item.ProductCode,
			"quantity":     item.QuantityInStock,
			"status":       status,
		})
	}

	return mapItemToResponse(item), nil
}

// notifyLowStock creates an in-app notification for every active warehouse
// manager and admin.
func (s *inventoryService) notifyLowStock(ctx context.Context, item *model.InventoryItem, status calc.StockStatus) error {
	for _, role := range []string{"admin", "warehouse_manager"} {
		users, _, err := s.userRepo.List(ctx, 1, 100, role, "")
		if err != nil {
			return fmt.Errorf("failed to list %s users: %w", role, err)
		}
		for _, user := range users {
			if !user.IsActive {
				continue
			}
			notification := &model.Notification{
				UserID:      user.ID,
				Title:       fmt.Sprintf("Stock alert: %s", item.ProductName),
				Message:     fmt.Sprintf("%s (%s) is %s with %d on hand", item.ProductName, item.ProductCode, status, item.QuantityInStock),
				Type:        model.NotificationTypeWarning,
				Category:    "inventory",
				IsImportant: status == calc.StockEmpty,
			}
			if err := s.notificationRepo.Create(ctx, notification); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
		}
	}
	return nil
}

func (s *inventoryService) Categories(ctx context.Context) ([]string, error) {
	return s.inventoryRepo.DistinctCategories(ctx)
}

func (s *inventoryService) Brands(ctx context.Context) ([]string, error) {
	return s.inventoryRepo.DistinctBrands(ctx)
}
