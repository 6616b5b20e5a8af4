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

type OrderItemRequest struct {
	ProductID       string          `json:"product_id" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Notes           string          `json:"notes"`
}

type CreateOrderRequest struct {
	CustomerID           string             `json:"customer_id" binding:"required"`
	SalesRepID           string             `json:"sales_rep_id"`
	OrderDate            string             `json:"order_date"`
	ExpectedDeliveryDate string             `json:"expected_delivery_date"`
	TaxRate              decimal.Decimal    `json:"tax_rate"`
	DiscountAmount       decimal.Decimal    `json:"discount_amount"`
	ShippingCost         decimal.Decimal    `json:"shipping_cost"`
	ShippingAddress      string             `json:"shipping_address"`
	Notes                string             `json:"notes"`
	InternalNotes        string             `json:"internal_notes"`
	Priority             string             `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Items                []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	Status               string           `json:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered"`
	PaymentStatus        string           `json:"payment_status" binding:"omitempty,oneof=pending partial paid refunded"`
	ExpectedDeliveryDate string           `json:"expected_delivery_date"`
	ActualDeliveryDate   string           `json:"actual_delivery_date"`
	TaxRate              *decimal.Decimal `json:"tax_rate"`
	DiscountAmount       *decimal.Decimal `json:"discount_amount"`
	ShippingCost         *decimal.Decimal `json:"shipping_cost"`
	ShippingAddress      string           `json:"shipping_address"`
	TrackingNumber       string           `json:"tracking_number"`
	Notes                string           `json:"notes"`
	InternalNotes        string           `json:"internal_notes"`
	Priority             string           `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// Websocket payload
type OrderEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (*model.Order, error)
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, page, limit int, status, customerID string) ([]model.Order, int64, error)
	ListMyOrders(ctx context.Context, actor Actor, page, limit int) ([]model.Order, int64, error)
	UpdateOrder(ctx context.Context, actor Actor, id string, req UpdateOrderRequest) (*model.Order, error)
	CancelOrder(ctx context.Context, actor Actor, id string, reason string) (*model.Order, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	customerRepo  repository.CustomerRepository
	inventoryRepo repository.InventoryRepository
	employeeRepo  repository.EmployeeRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	inventoryRepo repository.InventoryRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		inventoryRepo: inventoryRepo,
		employeeRepo:  employeeRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// orderTerminal reports whether the order can no longer be modified.
func orderTerminal(status string) bool {
	return status == model.OrderStatusDelivered || status == model.OrderStatusCancelled
}

// nextOrderNumber builds ORD-YYYYMMDD-NNNN from the day's running count.
func (s *orderService) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	count, err := s.orderRepo.CountForDay(ctx, now)
	if err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), count+1), nil
}

// recomputeTotals refreshes every derived money field on the order from its
// items and header inputs.
func recomputeTotals(order *model.Order) {
	lines := make([]calc.OrderLine, 0, len(order.Items))
	for i := range order.Items {
		line := calc.OrderLine{
			Quantity:        order.Items[i].Quantity,
			UnitPrice:       order.Items[i].UnitPrice,
			DiscountPercent: order.Items[i].DiscountPercent,
		}
		order.Items[i].Subtotal = calc.LineSubtotal(line)
		order.Items[i].DiscountAmount = calc.LineDiscountAmount(line)
		lines = append(lines, line)
	}

	totals := calc.OrderTotalsFor(lines, order.TaxRate, order.DiscountAmount, order.ShippingCost)
	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.TaxAmount
	order.Total = totals.Total
}

func (s *orderService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(OrderEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func (s *orderService) CreateOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (*model.Order, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: customer is inactive", ErrInvalidInput)
	}

	// The creating rep owns the order unless another rep is named.
	salesRepID := req.SalesRepID
	if salesRepID == "" {
		salesRepID = actor.EmployeeID
	}
	repID, err := parseOptionalUUID(salesRepID, "sales rep id")
	if err != nil {
		return nil, err
	}
	if repID != nil {
		if _, err := s.employeeRepo.FindByID(ctx, *repID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: sales rep not found", ErrInvalidInput)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	if req.DiscountAmount.IsNegative() || req.ShippingCost.IsNegative() || req.TaxRate.IsNegative() {
		return nil, fmt.Errorf("%w: financial amounts must not be negative", ErrInvalidInput)
	}

	now := time.Now()
	orderDate := now
	if parsed, err := parseOptionalDate(req.OrderDate, "order_date"); err != nil {
		return nil, err
	} else if parsed != nil {
		orderDate = *parsed
	}
	expectedDelivery, err := parseOptionalDate(req.ExpectedDeliveryDate, "expected_delivery_date")
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	order := &model.Order{
		CustomerID:           customerID,
		SalesRepID:           repID,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expectedDelivery,
		TaxRate:              req.TaxRate,
		DiscountAmount:       req.DiscountAmount,
		ShippingCost:         req.ShippingCost,
		Status:               model.OrderStatusPending,
		PaymentStatus:        model.PaymentStatusPending,
		ShippingAddress:      req.ShippingAddress,
		Notes:                req.Notes,
		InternalNotes:        req.InternalNotes,
		Priority:             priority,
	}

	var lowStock []string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.nextOrderNumber(txCtx, now)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		for _, itemReq := range req.Items {
			productID, err := uuid.Parse(itemReq.ProductID)
			if err != nil {
				return fmt.Errorf("%w: invalid product id %q", ErrInvalidInput, itemReq.ProductID)
			}

			item, err := s.inventoryRepo.FindByIDForUpdate(txCtx, productID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %s not found", ErrInvalidInput, itemReq.ProductID)
				}
				return fmt.Errorf("database error: %w", err)
			}
			if !item.IsActive || item.IsDiscontinued {
				return fmt.Errorf("%w: product %s is not sellable", ErrInvalidInput, item.ProductCode)
			}

			remaining, err := calc.AdjustStock(item.QuantityInStock, calc.AdjustSubtract, itemReq.Quantity)
			if err != nil {
				return fmt.Errorf("%w: product %s", err, item.ProductCode)
			}
			if err := s.inventoryRepo.UpdateQuantity(txCtx, item.ID, remaining); err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
			if calc.EvaluateStock(remaining, item.MinimumStockLevel) != calc.StockOK {
				lowStock = append(lowStock, item.ProductCode)
			}

			unitPrice := itemReq.UnitPrice
			if unitPrice.IsZero() {
				unitPrice = item.SellingPrice
			}
			if unitPrice.IsNegative() || itemReq.DiscountPercent.IsNegative() {
				return fmt.Errorf("%w: line amounts must not be negative", ErrInvalidInput)
			}

			pid := item.ID
			order.Items = append(order.Items, model.OrderItem{
				ProductID:       &pid,
				ProductName:     item.ProductName,
				ProductSKU:      item.ProductCode,
				Quantity:        itemReq.Quantity,
				UnitPrice:       unitPrice,
				DiscountPercent: itemReq.DiscountPercent,
				Notes:           itemReq.Notes,
			})
		}

		recomputeTotals(order)

		if err := s.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"order_number": order.OrderNumber,
			"customer_id":  order.CustomerID.String(),
			"total":        order.Total,
			"items":        len(order.Items),
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "orders",
			RecordID:  order.ID.String(),
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

	s.broadcast("order_created", map[string]interface{}{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"total":        order.Total,
	})
	for _, code := range lowStock {
		s.broadcast("stock_low", map[string]interface{}{"product_code": code})
	}

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid order id", ErrInvalidInput)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, oid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int, status, customerID string) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	filter := repository.OrderFilter{Status: status}
	cid, err := parseOptionalUUID(customerID, "customer id")
	if err != nil {
		return nil, 0, err
	}
	filter.CustomerID = cid

	return s.orderRepo.List(ctx, page, limit, filter)
}

// ListMyOrders returns orders owned by the acting sales rep.
func (s *orderService) ListMyOrders(ctx context.Context, actor Actor, page, limit int) ([]model.Order, int64, error) {
	if actor.EmployeeID == "" {
		return []model.Order{}, 0, nil
	}
	repID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid employee id", ErrInvalidInput)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.orderRepo.List(ctx, page, limit, repository.OrderFilter{SalesRepID: &repID})
}

func (s *orderService) UpdateOrder(ctx context.Context, actor Actor, id string, req UpdateOrderRequest) (*model.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid order id", ErrInvalidInput)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, oid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if orderTerminal(order.Status) {
		return nil, fmt.Errorf("%w: order %s is %s", ErrInvalidInput, order.OrderNumber, order.Status)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"status": order.Status, "payment_status": order.PaymentStatus, "total": order.Total,
	})

	financialChange := false
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() {
			return nil, fmt.Errorf("%w: tax rate must not be negative", ErrInvalidInput)
		}
		order.TaxRate = *req.TaxRate
		financialChange = true
	}
	if req.DiscountAmount != nil {
		if req.DiscountAmount.IsNegative() {
			return nil, fmt.Errorf("%w: discount must not be negative", ErrInvalidInput)
		}
		order.DiscountAmount = *req.DiscountAmount
		financialChange = true
	}
	if req.ShippingCost != nil {
		if req.ShippingCost.IsNegative() {
			return nil, fmt.Errorf("%w: shipping cost must not be negative", ErrInvalidInput)
		}
		order.ShippingCost = *req.ShippingCost
		financialChange = true
	}
	if financialChange {
		recomputeTotals(order)
	}

	if req.Status != "" {
		order.Status = req.Status
		if req.Status == model.OrderStatusDelivered && order.ActualDeliveryDate == nil {
			now := time.Now()
			order.ActualDeliveryDate = &now
		}
	}
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}
	if req.ExpectedDeliveryDate != "" {
		parsed, err := parseOptionalDate(req.ExpectedDeliveryDate, "expected_delivery_date")
		if err != nil {
			return nil, err
		}
		order.ExpectedDeliveryDate = parsed
	}
	if req.ActualDeliveryDate != "" {
		parsed, err := parseOptionalDate(req.ActualDeliveryDate, "actual_delivery_date")
		if err != nil {
			return nil, err
		}
		order.ActualDeliveryDate = parsed
	}
	if req.ShippingAddress != "" {
		order.ShippingAddress = req.ShippingAddress
	}
	if req.TrackingNumber != "" {
		order.TrackingNumber = req.TrackingNumber
	}
	if req.Notes != "" {
		order.Notes = req.Notes
	}
	if req.InternalNotes != "" {
		order.InternalNotes = req.InternalNotes
	}
	if req.Priority != "" {
		order.Priority = req.Priority
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"status": order.Status, "payment_status": order.PaymentStatus, "total": order.Total,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "orders",
			RecordID:  order.ID.String(),
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

	s.broadcast("order_updated", map[string]interface{}{
		"order_id": order.ID.String(),
		"status":   order.Status,
	})

	return order, nil
}

// CancelOrder marks the order cancelled and puts the reserved stock back.
func (s *orderService) CancelOrder(ctx context.Context, actor Actor, id string, reason string) (*model.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid order id", ErrInvalidInput)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, oid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if orderTerminal(order.Status) {
		return nil, fmt.Errorf("%w: order %s is %s", ErrInvalidInput, order.OrderNumber, order.Status)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			product, err := s.inventoryRepo.FindByIDForUpdate(txCtx, *item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("database error: %w", err)
			}
			restored, err := calc.AdjustStock(product.QuantityInStock, calc.AdjustAdd, item.Quantity)
			if err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
			if err := s.inventoryRepo.UpdateQuantity(txCtx, product.ID, restored); err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		order.Status = model.OrderStatusCancelled
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		details, _ := json.Marshal(map[string]string{"reason": reason})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName:   "orders",
			RecordID:    order.ID.String(),
			Operation:   model.AuditOpCancel,
			NewValues:   string(details),
			UserID:      actor.userUUID(),
			UserEmail:   actor.Email,
			IPAddress:   actor.IPAddress,
			UserAgent:   actor.UserAgent,
			Description: "order cancelled, stock restored",
			Severity:    model.AuditSeverityWarning,
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("order_cancelled", map[string]interface{}{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
	})

	return order, nil
}
