package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a stock-tracked product. Low-stock/out-of-stock flags and
// the profit margin are derived by the calc package from the stored fields.
type InventoryItem struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductCode       string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"product_code"`
	ProductName       string           `gorm:"type:varchar(255);not null" json:"product_name"`
	Description       string           `gorm:"type:text" json:"description"`
	Category          string           `gorm:"type:varchar(100);index" json:"category"`
	Brand             string           `gorm:"type:varchar(100)" json:"brand"`
	QuantityInStock   int              `gorm:"default:0" json:"quantity_in_stock"`
	MinimumStockLevel int              `gorm:"default:0" json:"minimum_stock_level"`
	ReorderPoint      *int             `json:"reorder_point"`
	CostPrice         decimal.Decimal  `gorm:"type:decimal(10,2);default:0" json:"cost_price"`
	SellingPrice      decimal.Decimal  `gorm:"type:decimal(10,2);default:0" json:"selling_price"`
	UnitOfMeasure     string           `gorm:"type:varchar(20);default:'piece'" json:"unit_of_measure"`
	Barcode           string           `gorm:"type:varchar(100)" json:"barcode"`
	SupplierName      string           `gorm:"type:varchar(255)" json:"supplier_name"`
	SupplierContact   string           `gorm:"type:varchar(255)" json:"supplier_contact"`
	IsActive          bool             `gorm:"default:true" json:"is_active"`
	IsDiscontinued    bool             `gorm:"default:false" json:"is_discontinued"`
	LastRestockedDate *time.Time       `gorm:"type:date" json:"last_restocked_date"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}
