package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit operation constants
const (
	AuditOpInsert          = "INSERT"
	AuditOpUpdate          = "UPDATE"
	AuditOpDelete          = "DELETE"
	AuditOpCancel          = "CANCEL"
	AuditOpApprove         = "APPROVE"
	AuditOpReject          = "REJECT"
	AuditOpStockAdjustment = "STOCK_ADJUSTMENT"
	AuditOpLogin           = "LOGIN"
	AuditOpLoginFailed     = "LOGIN_FAILED"
	AuditOpLogout          = "LOGOUT"
	AuditOpPasswordChanged = "PASSWORD_CHANGED"
	AuditOpAccountUnlocked = "ACCOUNT_UNLOCKED"
)

// Audit severity constants
const (
	AuditSeverityInfo     = "info"
	AuditSeverityWarning  = "warning"
	AuditSeverityError    = "error"
	AuditSeverityCritical = "critical"
)

// AuditLog tracks who changed what and when. Old/NewValues carry JSON
// snapshots of the mutated row; rows are write-once and never edited.
type AuditLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TableName   string     `gorm:"type:varchar(100);not null;index" json:"table_name"`
	RecordID    string     `gorm:"type:varchar(100);not null;index" json:"record_id"`
	Operation   string     `gorm:"type:varchar(20);not null;index" json:"operation"`
	OldValues   string     `gorm:"type:jsonb" json:"old_values"`
	NewValues   string     `gorm:"type:jsonb" json:"new_values"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UserEmail   string     `gorm:"type:varchar(255)" json:"user_email"`
	IPAddress   string     `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string     `gorm:"type:text" json:"user_agent"`
	Description string     `gorm:"type:text" json:"description"`
	Severity    string     `gorm:"type:varchar(20);default:'info'" json:"severity"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}
