package model

import (
	"time"

	"github.com/google/uuid"
)

// Department groups employees under an optional manager
type Department struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	ManagerID   *uuid.UUID `gorm:"type:uuid" json:"manager_id"`
	Manager     *Employee  `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
