package models

import (
	"time"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveRequest is a worker's request for time off, decided by an admin.
type LeaveRequest struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	WorkerID  uint        `json:"worker_id" gorm:"not null;index"`
	StartDate time.Time   `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time   `json:"end_date" gorm:"type:date;not null"`
	Reason    string      `json:"reason" gorm:"type:text;not null"`
	Status    LeaveStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','approved','rejected')"`
	AdminNote string      `json:"admin_note" gorm:"type:text"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// Relationships
	Worker *WorkerProfile `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// TableName specifies the table name for the LeaveRequest model
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveRequestCreate represents the request structure for filing leave
type LeaveRequestCreate struct {
	StartDate string `json:"start_date" binding:"required"` // "2006-01-02"
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// LeaveDecisionRequest represents an admin's decision on a leave request
type LeaveDecisionRequest struct {
	Status    string `json:"status" binding:"required"` // approved or rejected
	AdminNote string `json:"admin_note"`
}
