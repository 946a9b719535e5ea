package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"worker-marketplace-server/models"
)

// BookingStore is the gorm-backed booking ledger.
type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

// Create inserts a booking. The partial unique index over
// (worker_id, preferred_date, preferred_time) is the hard backstop behind the
// optimistic existence check: when two requests race for the same slot, the
// second insert fails closed here and is reported as the same slot conflict
// the pre-check would have raised.
func (s *BookingStore) Create(ctx context.Context, booking *models.Booking) error {
	err := s.db.WithContext(ctx).Create(booking).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrSlotTaken
	}
	return err
}

// ExistsActiveSlot reports whether a pending or accepted booking already
// occupies the given worker/date/time slot.
func (s *BookingStore) ExistsActiveSlot(ctx context.Context, workerID uint, date time.Time, timeSlot string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("worker_id = ? AND preferred_date = ? AND preferred_time = ? AND status IN ?",
			workerID, date, timeSlot, models.ActiveStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *BookingStore) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Worker").Preload("Worker.User").
		First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingStore) Update(ctx context.Context, booking *models.Booking) error {
	return s.db.WithContext(ctx).Save(booking).Error
}

// ListByWorker returns a worker's bookings, newest first.
func (s *BookingStore) ListByWorker(ctx context.Context, workerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListByCustomerEmail returns a customer's bookings with worker fields joined.
func (s *BookingStore) ListByCustomerEmail(ctx context.Context, email string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Worker").Preload("Worker.User").
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListAll returns every booking with worker fields joined, newest first.
func (s *BookingStore) ListAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Worker").Preload("Worker.User").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListActiveInRange returns a worker's pending/accepted bookings whose
// preferred date falls in [from, to] inclusive.
func (s *BookingStore) ListActiveInRange(ctx context.Context, workerID uint, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("worker_id = ? AND preferred_date >= ? AND preferred_date <= ? AND status IN ?",
			workerID, from, to, models.ActiveStatuses).
		Order("preferred_date").
		Find(&bookings).Error
	return bookings, err
}
