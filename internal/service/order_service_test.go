package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/calc"
	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderFixture struct {
	svc       OrderService
	orders    *fakeOrderRepo
	inventory *fakeInventoryRepo
	audit     *fakeAuditRepo
	customer  *model.Customer
	product   *model.InventoryItem
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	orderRepo := newFakeOrderRepo()
	customerRepo := newFakeCustomerRepo()
	inventoryRepo := newFakeInventoryRepo()
	employeeRepo := newFakeEmployeeRepo()
	auditRepo := newFakeAuditRepo()

	customer := &model.Customer{ID: uuid.New(), Name: "Acme Ltd", Email: "acme@example.com", IsActive: true}
	customerRepo.customers[customer.ID] = customer

	product := &model.InventoryItem{
		ID:                uuid.New(),
		ProductCode:       "SKU-001",
		ProductName:       "Widget",
		QuantityInStock:   10,
		MinimumStockLevel: 2,
		SellingPrice:      decimal.RequireFromString("10.00"),
		IsActive:          true,
	}
	inventoryRepo.items[product.ID] = product

	svc := NewOrderService(orderRepo, customerRepo, inventoryRepo, employeeRepo, auditRepo, &fakeTxManager{}, nil)
	return &orderFixture{
		svc:       svc,
		orders:    orderRepo,
		inventory: inventoryRepo,
		audit:     auditRepo,
		customer:  customer,
		product:   product,
	}
}

func testActor() Actor {
	return Actor{UserID: uuid.NewString(), Email: "rep@example.com", Role: "sales_rep"}
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		TaxRate:    decimal.RequireFromString("10"),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if order.OrderNumber == "" {
		t.Error("expected an order number")
	}
	if order.Status != model.OrderStatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if !order.Subtotal.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("subtotal = %s, want 30.00", order.Subtotal)
	}
	if !order.TaxAmount.Equal(decimal.RequireFromString("3.00")) {
		t.Errorf("tax = %s, want 3.00", order.TaxAmount)
	}
	if !order.Total.Equal(decimal.RequireFromString("33.00")) {
		t.Errorf("total = %s, want 33.00", order.Total)
	}

	if f.product.QuantityInStock != 7 {
		t.Errorf("stock = %d, want 7 after reservation", f.product.QuantityInStock)
	}
	if len(order.Items) != 1 || order.Items[0].ProductSKU != "SKU-001" {
		t.Errorf("unexpected items: %+v", order.Items)
	}
	if f.audit.countOps(model.AuditOpInsert) != 1 {
		t.Error("expected an insert audit entry")
	}
}

func TestCreateOrderDefaultsUnitPriceFromCatalog(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.CreateOrder(context.Background(), testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if !order.Items[0].UnitPrice.Equal(f.product.SellingPrice) {
		t.Errorf("unit price = %s, want catalog price %s", order.Items[0].UnitPrice, f.product.SellingPrice)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 11},
		},
	})
	if !errors.Is(err, calc.ErrInsufficientStock) {
		t.Fatalf("CreateOrder() error = %v, want ErrInsufficientStock", err)
	}
	if f.product.QuantityInStock != 10 {
		t.Errorf("stock = %d, want unchanged 10", f.product.QuantityInStock)
	}
}

func TestCreateOrderInactiveCustomer(t *testing.T) {
	f := newOrderFixture(t)
	f.customer.IsActive = false

	_, err := f.svc.CreateOrder(context.Background(), testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CreateOrder() error = %v, want ErrInvalidInput", err)
	}
}

func TestCreateOrderDiscontinuedProduct(t *testing.T) {
	f := newOrderFixture(t)
	f.product.IsDiscontinued = true

	_, err := f.svc.CreateOrder(context.Background(), testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CreateOrder() error = %v, want ErrInvalidInput", err)
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 4},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if f.product.QuantityInStock != 6 {
		t.Fatalf("stock = %d, want 6 after order", f.product.QuantityInStock)
	}

	cancelled, err := f.svc.CancelOrder(ctx, testActor(), order.ID.String(), "customer changed mind")
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}
	if cancelled.Status != model.OrderStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if f.product.QuantityInStock != 10 {
		t.Errorf("stock = %d, want restored 10", f.product.QuantityInStock)
	}
	if f.audit.countOps(model.AuditOpCancel) != 1 {
		t.Error("expected a cancel audit entry")
	}
}

func TestCancelOrderTwice(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if _, err := f.svc.CancelOrder(ctx, testActor(), order.ID.String(), ""); err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}

	if _, err := f.svc.CancelOrder(ctx, testActor(), order.ID.String(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second cancel error = %v, want ErrInvalidInput", err)
	}
	if f.product.QuantityInStock != 10 {
		t.Errorf("stock = %d, want 10 (restored once)", f.product.QuantityInStock)
	}
}

func TestUpdateOrderTerminal(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	order.Status = model.OrderStatusDelivered

	_, err = f.svc.UpdateOrder(ctx, testActor(), order.ID.String(), UpdateOrderRequest{Status: model.OrderStatusShipped})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("UpdateOrder() error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateOrderRecomputesTotals(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		TaxRate:    decimal.RequireFromString("10"),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	shipping := decimal.RequireFromString("5.00")
	updated, err := f.svc.UpdateOrder(ctx, testActor(), order.ID.String(), UpdateOrderRequest{ShippingCost: &shipping})
	if err != nil {
		t.Fatalf("UpdateOrder() error = %v", err)
	}
	if !updated.Total.Equal(decimal.RequireFromString("38.00")) {
		t.Errorf("total = %s, want 38.00 after shipping added", updated.Total)
	}
}

func TestUpdateOrderNegativeDiscount(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, testActor(), CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []OrderItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	discount := decimal.RequireFromString("-1")
	_, err = f.svc.UpdateOrder(ctx, testActor(), order.ID.String(), UpdateOrderRequest{DiscountAmount: &discount})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("UpdateOrder() error = %v, want ErrInvalidInput", err)
	}
}

func TestGetOrderByIDNotFound(t *testing.T) {
	f := newOrderFixture(t)

	if _, err := f.svc.GetOrderByID(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetOrderByID() error = %v, want ErrNotFound", err)
	}
}
