package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
)

// GatewayVerifier checks a payment with the payment gateway.
type GatewayVerifier interface {
	Verify(ctx context.Context, gatewayRef string, amount float64) (bool, error)
}

// StubGateway stands in for real gateway integration, which is out of scope.
// Every verification succeeds.
type StubGateway struct{}

func (StubGateway) Verify(ctx context.Context, gatewayRef string, amount float64) (bool, error) {
	return true, nil
}

// PaymentService records payments against bookings.
type PaymentService struct {
	db      *gorm.DB
	gateway GatewayVerifier
}

func NewPaymentService(db *gorm.DB, gateway GatewayVerifier) *PaymentService {
	return &PaymentService{db: db, gateway: gateway}
}

// Record validates the referenced booking, verifies the payment with the
// gateway and stores it.
func (s *PaymentService) Record(ctx context.Context, req models.PaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, req.BookingID).Error; err != nil {
		return nil, models.ErrBookingNotFound
	}

	payment := &models.Payment{
		BookingID:     req.BookingID,
		Amount:        req.Amount,
		Method:        req.Method,
		TransactionID: uuid.NewString(),
		GatewayRef:    req.GatewayRef,
		Status:        models.PaymentStatusPending,
	}

	verified, err := s.gateway.Verify(ctx, req.GatewayRef, req.Amount)
	if err != nil {
		return nil, err
	}
	if verified {
		payment.Status = models.PaymentStatusVerified
	} else {
		payment.Status = models.PaymentStatusFailed
	}

	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}

	return payment, nil
}

// ListByBooking returns the payments recorded against a booking.
func (s *PaymentService) ListByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}
