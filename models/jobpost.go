package models

import (
	"time"

	"gorm.io/gorm"
)

// JobPost is an open job a customer publishes for workers to browse.
type JobPost struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	WorkType    string         `json:"work_type" gorm:"type:varchar(100);not null;index"`
	City        string         `json:"city" gorm:"type:varchar(100)"`
	Budget      float64        `json:"budget" gorm:"type:decimal(10,2)"`
	IsOpen      bool           `json:"is_open" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the JobPost model
func (JobPost) TableName() string {
	return "job_posts"
}

// JobPostRequest represents the request structure for creating/updating a job post
type JobPostRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	WorkType    string  `json:"work_type" binding:"required"`
	City        string  `json:"city"`
	Budget      float64 `json:"budget"`
}
