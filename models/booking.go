package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsActive reports whether the status counts against the slot uniqueness
// invariant. Rejected, completed and cancelled bookings free the slot.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted
}

// ActiveStatuses are the statuses that occupy a slot.
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusAccepted}

type Booking struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	WorkerID uint `json:"worker_id" gorm:"not null;index"`

	// Customer identity is denormalized; a customer is identified ad hoc
	// by email string, not by a foreign key to any account.
	CustomerName  string `json:"customer_name" gorm:"size:255;not null"`
	CustomerEmail string `json:"customer_email" gorm:"size:255;not null;index"`
	CustomerPhone string `json:"customer_phone" gorm:"size:20;not null"`

	WorkDescription string    `json:"work_description" gorm:"type:text;not null"`
	PreferredDate   time.Time `json:"preferred_date" gorm:"type:date;not null"`
	PreferredTime   string    `json:"preferred_time" gorm:"size:20;not null"` // slot token, e.g. "09:00"
	Address         string    `json:"address" gorm:"size:500;not null"`
	EstimatedHours  int       `json:"estimated_hours" gorm:"default:1;check:estimated_hours >= 1 AND estimated_hours <= 12"`

	// Carries the "Budget/Urgency" annotation at creation time and the
	// worker's response message after a status change.
	SpecialRequirements string `json:"special_requirements" gorm:"type:text"`

	Status      BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','accepted','rejected','completed','cancelled')"`
	BookingDate time.Time     `json:"booking_date" gorm:"type:date;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Worker *WorkerProfile `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// CreateBookingRequest represents the request structure for creating a booking
type CreateBookingRequest struct {
	WorkerID        uint   `json:"worker_id" binding:"required"`
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerEmail   string `json:"customer_email" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	WorkDescription string `json:"work_description" binding:"required"`
	PreferredDate   string `json:"preferred_date" binding:"required"` // "2006-01-02"
	PreferredTime   string `json:"preferred_time" binding:"required"`
	Address         string `json:"address" binding:"required"`
	EstimatedHours  *int   `json:"estimated_hours"`
	Budget          string `json:"budget"`
	Urgency         string `json:"urgency"`
}

// UpdateBookingStatusRequest represents the request structure for a status transition
type UpdateBookingStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

// WorkerAvailability is the calendar view for a worker over one month
type WorkerAvailability struct {
	BookedDates   []string `json:"bookedDates"`
	PendingDates  []string `json:"pendingDates"`
	AcceptedDates []string `json:"acceptedDates"`
}

// BookingNotification is the customer-facing payload assembled on acceptance.
// Delivery is an external collaborator's responsibility.
type BookingNotification struct {
	CustomerEmail string `json:"customer_email"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	WorkerName    string `json:"worker_name"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
}
