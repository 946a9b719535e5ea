package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Payment records money received against a booking. Gateway integration is
// out of scope; verification is stubbed at the service layer.
type Payment struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	BookingID     uint          `json:"booking_id" gorm:"not null;index"`
	Amount        float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method        string        `json:"method" gorm:"type:varchar(50);not null"` // cash, card, transfer
	TransactionID string        `json:"transaction_id" gorm:"size:64;uniqueIndex;not null"`
	GatewayRef    string        `json:"gateway_ref" gorm:"size:255"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','verified','failed')"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relationships
	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// PaymentRequest represents the request structure for recording a payment
type PaymentRequest struct {
	BookingID  uint    `json:"booking_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
	Method     string  `json:"method" binding:"required"`
	GatewayRef string  `json:"gateway_ref"`
}
