package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerType enum constants
const (
	CustomerTypeIndividual = "individual"
	CustomerTypeBusiness   = "business"
)

// Customer represents a buyer placing orders
type Customer struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone        string         `gorm:"type:varchar(20)" json:"phone"`
	Address      string         `gorm:"type:text" json:"address"`
	CompanyName  string         `gorm:"type:varchar(255)" json:"company_name"`
	TaxNumber    string         `gorm:"type:varchar(50)" json:"tax_number"`
	CustomerType string         `gorm:"type:varchar(20);default:'individual'" json:"customer_type"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
