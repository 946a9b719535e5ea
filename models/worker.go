package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkerProfile represents a worker's professional profile
type WorkerProfile struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	UserID      uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	WorkType    string  `json:"work_type" gorm:"type:varchar(100);not null"` // e.g. "Plumber"
	City        string  `json:"city" gorm:"type:varchar(100)"`
	Address     string  `json:"address" gorm:"type:text"`
	Experience  string  `json:"experience" gorm:"type:text"`
	Skills      string  `json:"skills" gorm:"type:text"`
	HourlyRate  float64 `json:"hourly_rate" gorm:"type:decimal(10,2);default:0"`

	// Advisory only, not consulted by the slot conflict guard
	IsAvailable bool `json:"is_available" gorm:"default:true"`

	CompletedJobs int     `json:"completed_jobs" gorm:"default:0"`
	Rating        float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	IsVerified    bool    `json:"is_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the WorkerProfile model
func (WorkerProfile) TableName() string {
	return "worker_profiles"
}

// DisplayName returns the worker's customer-facing name
func (w *WorkerProfile) DisplayName() string {
	if w.User.FullName != "" {
		return w.User.FullName
	}
	return w.WorkType
}

// WorkerProfileRequest represents the request structure for creating/updating a worker profile
type WorkerProfileRequest struct {
	WorkType   string  `json:"work_type" binding:"required"`
	City       string  `json:"city"`
	Address    string  `json:"address"`
	Experience string  `json:"experience"`
	Skills     string  `json:"skills"`
	HourlyRate float64 `json:"hourly_rate"`
}
