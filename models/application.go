package models

import (
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// WorkerApplication is a user's request to be listed as a worker.
// Approval by an admin provisions the WorkerProfile.
type WorkerApplication struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	UserID     uint              `json:"user_id" gorm:"not null;index"`
	WorkType   string            `json:"work_type" gorm:"type:varchar(100);not null"`
	City       string            `json:"city" gorm:"type:varchar(100)"`
	Experience string            `json:"experience" gorm:"type:text"`
	Skills     string            `json:"skills" gorm:"type:text"`
	HourlyRate float64           `json:"hourly_rate" gorm:"type:decimal(10,2)"`
	Status     ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','approved','rejected')"`
	AdminNote  string            `json:"admin_note" gorm:"type:text"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the WorkerApplication model
func (WorkerApplication) TableName() string {
	return "worker_applications"
}

// WorkerApplicationRequest represents the request structure for applying as a worker
type WorkerApplicationRequest struct {
	WorkType   string  `json:"work_type" binding:"required"`
	City       string  `json:"city"`
	Experience string  `json:"experience"`
	Skills     string  `json:"skills"`
	HourlyRate float64 `json:"hourly_rate"`
}

// ApplicationDecisionRequest represents an admin's decision on an application
type ApplicationDecisionRequest struct {
	Status    string `json:"status" binding:"required"` // approved or rejected
	AdminNote string `json:"admin_note"`
}
