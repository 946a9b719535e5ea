package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a stored customer-facing message. Assembly happens here;
// delivery is an external collaborator's responsibility.
type Notification struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"size:255;not null;index"`
	Title     string         `json:"title" gorm:"not null"`
	Body      string         `json:"body" gorm:"not null"`
	Type      string         `json:"type" gorm:"not null"` // booking_accepted, booking_rejected, booking_completed, application_decided, system
	Data      string         `json:"data" gorm:"type:text"` // JSON data
	Read      bool           `json:"read" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
