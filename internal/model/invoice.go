package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus constants
const (
	InvoiceStatusUnpaid    = "unpaid"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice is a billing document, usually generated from an order. BalanceDue
// is derived (total_amount - paid_amount) and recomputed on every payment.
type Invoice struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	OrderID          *uuid.UUID      `gorm:"type:uuid;index" json:"order_id"`
	Order            *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer         *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	InvoiceDate      time.Time       `gorm:"type:date" json:"invoice_date"`
	DueDate          *time.Time      `gorm:"type:date" json:"due_date"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tax_amount"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"paid_amount"`
	BalanceDue       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"balance_due"`
	Status           string          `gorm:"type:varchar(20);default:'unpaid';index" json:"status"`
	PaymentDate      *time.Time      `gorm:"type:date" json:"payment_date"`
	PaymentMethod    string          `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentReference string          `gorm:"type:varchar(100)" json:"payment_reference"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
