package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType constants
const (
	NotificationTypeInfo    = "info"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
	NotificationTypeSuccess = "success"
)

// Notification is an in-app message for a single user
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Type        string     `gorm:"type:varchar(50);default:'info'" json:"type"`
	Category    string     `gorm:"type:varchar(50)" json:"category"`
	IsRead      bool       `gorm:"default:false;index" json:"is_read"`
	IsImportant bool       `gorm:"default:false" json:"is_important"`
	ReadAt      *time.Time `json:"read_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
