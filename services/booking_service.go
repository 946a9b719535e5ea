package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"worker-marketplace-server/models"
	"worker-marketplace-server/utils"
)

// BookingLedger is the booking persistence collaborator.
type BookingLedger interface {
	Create(ctx context.Context, booking *models.Booking) error
	ExistsActiveSlot(ctx context.Context, workerID uint, date time.Time, timeSlot string) (bool, error)
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	ListByWorker(ctx context.Context, workerID uint) ([]models.Booking, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListActiveInRange(ctx context.Context, workerID uint, from, to time.Time) ([]models.Booking, error)
}

// WorkerDirectory is the read-only worker lookup collaborator.
type WorkerDirectory interface {
	FindByID(ctx context.Context, id uint) (*models.WorkerProfile, error)
}

// NotificationSink stores assembled notification payloads. Delivery is
// outside this service's scope.
type NotificationSink interface {
	Save(ctx context.Context, n *models.Notification) error
}

// BookingService owns booking creation, the slot conflict guard, the status
// workflow and the availability query.
type BookingService struct {
	bookings      BookingLedger
	workers       WorkerDirectory
	notifications NotificationSink
}

func NewBookingService(bookings BookingLedger, workers WorkerDirectory, notifications NotificationSink) *BookingService {
	return &BookingService{
		bookings:      bookings,
		workers:       workers,
		notifications: notifications,
	}
}

// allowedTargetStatuses is the fixed vocabulary a status transition may
// request. Transition legality from the current status is deliberately not
// enforced; only the target value is validated.
var allowedTargetStatuses = map[models.BookingStatus]bool{
	models.BookingStatusAccepted:  true,
	models.BookingStatusRejected:  true,
	models.BookingStatusCompleted: true,
	models.BookingStatusCancelled: true,
}

const dateLayout = "2006-01-02"

// CreateBooking validates the request, checks the worker exists, runs the
// slot conflict guard and inserts the booking with status pending.
func (s *BookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	if !utils.ValidateEmail(req.CustomerEmail) {
		return nil, fmt.Errorf("%w: invalid customer email", models.ErrValidation)
	}

	hours := 1
	if req.EstimatedHours != nil {
		hours = *req.EstimatedHours
	}
	if hours < 1 || hours > 12 {
		return nil, fmt.Errorf("%w: estimated hours must be between 1 and 12", models.ErrValidation)
	}

	preferredDate, err := time.ParseInLocation(dateLayout, req.PreferredDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: preferred date must be in YYYY-MM-DD format", models.ErrValidation)
	}

	// Worker existence is reported before the guard runs.
	if _, err := s.workers.FindByID(ctx, req.WorkerID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		WorkerID:            req.WorkerID,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		WorkDescription:     req.WorkDescription,
		PreferredDate:       preferredDate,
		PreferredTime:       req.PreferredTime,
		Address:             req.Address,
		EstimatedHours:      hours,
		SpecialRequirements: budgetUrgencyNote(req.Budget, req.Urgency),
		Status:              models.BookingStatusPending,
		BookingDate:         today(),
	}

	// Optimistic existence check. The check and the insert are not atomic:
	// two near-simultaneous requests can both pass it, and the unique index
	// behind the ledger decides the race.
	taken, err := s.bookings.ExistsActiveSlot(ctx, booking.WorkerID, booking.PreferredDate, booking.PreferredTime)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrSlotTaken
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// UpdateStatus applies a status transition. The target must be one of
// accepted/rejected/completed/cancelled; an optional message overwrites
// specialRequirements. On acceptance a customer-facing notification payload
// is assembled and returned alongside the booking.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uint, req models.UpdateBookingStatusRequest) (*models.Booking, *models.BookingNotification, error) {
	target := models.BookingStatus(req.Status)
	if !allowedTargetStatuses[target] {
		return nil, nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, req.Status)
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	booking.Status = target
	if req.Message != "" {
		booking.SpecialRequirements = req.Message
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, nil, err
	}

	var notification *models.BookingNotification
	if target == models.BookingStatusAccepted {
		notification = s.buildAcceptanceNotification(ctx, booking)
	}

	return booking, notification, nil
}

func (s *BookingService) buildAcceptanceNotification(ctx context.Context, booking *models.Booking) *models.BookingNotification {
	workerName := ""
	if worker, err := s.workers.FindByID(ctx, booking.WorkerID); err == nil {
		workerName = worker.DisplayName()
	}

	date := booking.PreferredDate.Format(dateLayout)
	notification := &models.BookingNotification{
		CustomerEmail: booking.CustomerEmail,
		Title:         "Booking accepted",
		Body:          fmt.Sprintf("%s has accepted your booking for %s at %s", workerName, date, booking.PreferredTime),
		WorkerName:    workerName,
		PreferredDate: date,
		PreferredTime: booking.PreferredTime,
	}

	data, _ := json.Marshal(notification)
	record := &models.Notification{
		Email: booking.CustomerEmail,
		Title: notification.Title,
		Body:  notification.Body,
		Type:  "booking_accepted",
		Data:  string(data),
	}
	if err := s.notifications.Save(ctx, record); err != nil {
		// The transition already committed; losing the stored copy of the
		// payload does not fail the request.
		log.Printf("⚠️ Failed to store acceptance notification for booking %d: %v", booking.ID, err)
	}

	return notification
}

// Availability derives the calendar view for a worker over one month: every
// date with an active booking, plus the pending and accepted subsets.
func (s *BookingService) Availability(ctx context.Context, workerID uint, month, year int) (*models.WorkerAvailability, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", models.ErrValidation)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the following month normalizes to the last day of the
	// requested month, leap years included.
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)

	bookings, err := s.bookings.ListActiveInRange(ctx, workerID, start, end)
	if err != nil {
		return nil, err
	}

	availability := &models.WorkerAvailability{
		BookedDates:   []string{},
		PendingDates:  []string{},
		AcceptedDates: []string{},
	}
	for _, b := range bookings {
		date := b.PreferredDate.Format(dateLayout)
		availability.BookedDates = append(availability.BookedDates, date)
		switch b.Status {
		case models.BookingStatusPending:
			availability.PendingDates = append(availability.PendingDates, date)
		case models.BookingStatusAccepted:
			availability.AcceptedDates = append(availability.AcceptedDates, date)
		}
	}

	return availability, nil
}

// GetBooking returns one booking with worker fields joined.
func (s *BookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return s.bookings.FindByID(ctx, id)
}

// WorkerBookings returns a worker's bookings, newest first.
func (s *BookingService) WorkerBookings(ctx context.Context, workerID uint) ([]models.Booking, error) {
	return s.bookings.ListByWorker(ctx, workerID)
}

// CustomerBookings returns the bookings created under a customer email.
func (s *BookingService) CustomerBookings(ctx context.Context, email string) ([]models.Booking, error) {
	return s.bookings.ListByCustomerEmail(ctx, email)
}

// AllBookings returns every booking for the admin view.
func (s *BookingService) AllBookings(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.ListAll(ctx)
}

func budgetUrgencyNote(budget, urgency string) string {
	var parts []string
	if budget != "" {
		parts = append(parts, "Budget: "+budget)
	}
	if urgency != "" {
		parts = append(parts, "Urgency: "+urgency)
	}
	return strings.Join(parts, " | ")
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
