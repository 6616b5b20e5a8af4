package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollStatus constants
const (
	PayrollStatusPending   = "pending"
	PayrollStatusPaid      = "paid"
	PayrollStatusCancelled = "cancelled"
)

// Payroll is one pay-period record for an employee. OvertimePay, GrossSalary,
// TotalDeductions and NetSalary are derived by the calc package from the input
// fields. Deductions may exceed gross, leaving NetSalary negative; that is
// deliberately passed through unclamped.
type Payroll struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee           *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	PayPeriodStart     time.Time       `gorm:"type:date;not null" json:"pay_period_start"`
	PayPeriodEnd       time.Time       `gorm:"type:date;not null" json:"pay_period_end"`
	BaseSalary         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_salary"`
	OvertimeHours      decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"overtime_hours"`
	OvertimeRate       decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"overtime_rate"`
	OvertimePay        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"overtime_pay"`
	Bonus              decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"bonus"`
	Commission         decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"commission"`
	Allowances         decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"allowances"`
	TaxDeduction       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tax_deduction"`
	InsuranceDeduction decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"insurance_deduction"`
	OtherDeductions    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"other_deductions"`
	TotalDeductions    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_deductions"`
	GrossSalary        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"gross_salary"`
	NetSalary          decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"net_salary"`
	PaymentDate        *time.Time      `json:"payment_date"`
	PaymentMethod      string          `gorm:"type:varchar(50);default:'bank_transfer'" json:"payment_method"`
	Status             string          `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ApprovedBy         *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	Approver           *User           `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	Notes              string          `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// RewardStatus constants
const (
	RewardStatusActive  = "active"
	RewardStatusRevoked = "revoked"
)

// Reward is a recognition entry for an employee; points accumulate on the
// employee record when the reward is created.
type Reward struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee      *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	RewardType    string          `gorm:"type:varchar(50);not null" json:"reward_type"`
	Title         string          `gorm:"type:varchar(255);not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	PointsAwarded int             `gorm:"default:0" json:"points_awarded"`
	MonetaryValue decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"monetary_value"`
	RewardDate    time.Time       `gorm:"type:date" json:"reward_date"`
	AwardedBy     *uuid.UUID      `gorm:"type:uuid" json:"awarded_by"`
	Awarder       *User           `gorm:"foreignKey:AwardedBy" json:"awarder,omitempty"`
	Status        string          `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
