package model

import (
	"time"

	"github.com/google/uuid"
)

// EmploymentStatus constants
const (
	EmploymentActive     = "active"
	EmploymentSuspended  = "suspended"
	EmploymentTerminated = "terminated"
)

// Employee is the HR record behind a User. ManagerID points at another
// Employee and drives the ownership checks for my-team style reads.
type Employee struct {
	ID               uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User             *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EmployeeNumber   string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"employee_number"`
	FullName         string      `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone            string      `gorm:"type:varchar(20)" json:"phone"`
	Address          string      `gorm:"type:text" json:"address"`
	DepartmentID     *uuid.UUID  `gorm:"type:uuid;index" json:"department_id"`
	Department       *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Position         string      `gorm:"type:varchar(100);not null" json:"position"`
	ManagerID        *uuid.UUID  `gorm:"type:uuid;index" json:"manager_id"`
	Manager          *Employee   `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	HireDate         *time.Time  `gorm:"type:date" json:"hire_date"`
	SalaryGrade      string      `gorm:"type:varchar(10)" json:"salary_grade"`
	EmploymentStatus string      `gorm:"type:varchar(20);default:'active'" json:"employment_status"`
	RewardPoints     int         `gorm:"default:0" json:"reward_points"`
	BonusEligible    bool        `gorm:"default:true" json:"bonus_eligible"`
	IsActive         bool        `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
