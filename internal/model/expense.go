package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseStatus constants
const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
	ExpenseStatusPaid     = "paid"
)

// Expense is a cost entry with a submit/approve workflow. TotalAmount is
// derived (amount + tax_amount).
type Expense struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExpenseNumber string          `gorm:"type:varchar(50);uniqueIndex" json:"expense_number"`
	ExpenseType   string          `gorm:"type:varchar(50);not null" json:"expense_type"`
	Category      string          `gorm:"type:varchar(100)" json:"category"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tax_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_amount"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	VendorName    string          `gorm:"type:varchar(255)" json:"vendor_name"`
	ExpenseDate   time.Time       `gorm:"type:date" json:"expense_date"`
	DueDate       *time.Time      `gorm:"type:date" json:"due_date"`
	SubmittedBy   *uuid.UUID      `gorm:"type:uuid;index" json:"submitted_by"`
	Submitter     *User           `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	ApprovedBy    *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	Approver      *User           `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovalDate  *time.Time      `gorm:"type:date" json:"approval_date"`
	Status        string          `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method"`
	DepartmentID  *uuid.UUID      `gorm:"type:uuid;index" json:"department_id"`
	Department    *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
