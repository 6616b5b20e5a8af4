package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus constants
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// PaymentStatus constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// OrderPriority constants
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Order is a sales order. Subtotal, TaxAmount and Total are derived by the
// calc package from the items and header fields; they are recomputed as a
// whole on every financial change, never patched incrementally.
type Order struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	CustomerID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer             *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	SalesRepID           *uuid.UUID      `gorm:"type:uuid;index" json:"sales_rep_id"`
	SalesRep             *Employee       `gorm:"foreignKey:SalesRepID" json:"sales_rep,omitempty"`
	OrderDate            time.Time       `gorm:"type:date" json:"order_date"`
	ExpectedDeliveryDate *time.Time      `gorm:"type:date" json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `gorm:"type:date" json:"actual_delivery_date"`
	Subtotal             decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"subtotal"`
	TaxRate              decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	TaxAmount            decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tax_amount"`
	DiscountAmount       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	ShippingCost         decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"shipping_cost"`
	Total                decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total"`
	Status               string          `gorm:"type:varchar(30);default:'pending';index" json:"status"`
	PaymentStatus        string          `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	ShippingAddress      string          `gorm:"type:text" json:"shipping_address"`
	TrackingNumber       string          `gorm:"type:varchar(100)" json:"tracking_number"`
	Notes                string          `gorm:"type:text" json:"notes"`
	InternalNotes        string          `gorm:"type:text" json:"internal_notes"`
	Priority             string          `gorm:"type:varchar(10);default:'normal'" json:"priority"`
	Items                []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// OrderItem is a line on an Order. Product fields are copied at order time so
// the line survives later catalogue edits.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index" json:"product_id"`
	Product         *InventoryItem  `gorm:"foreignKey:ProductID" json:"-"`
	ProductName     string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSKU      string          `gorm:"type:varchar(100)" json:"product_sku"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"subtotal"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}
