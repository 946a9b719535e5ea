package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worker-marketplace-server/models"
	"worker-marketplace-server/services"
)

// fakeLedger is an in-memory booking ledger. Create enforces the same
// active-slot uniqueness the partial unique index provides, under a lock, so
// concurrent create tests exercise the race the real constraint decides.
type fakeLedger struct {
	mu       sync.Mutex
	bookings []models.Booking
	nextID   uint

	// captured by ListActiveInRange for range assertions
	lastFrom time.Time
	lastTo   time.Time
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{nextID: 1}
}

func (f *fakeLedger) Create(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.bookings {
		if existing.WorkerID == b.WorkerID &&
			existing.PreferredDate.Equal(b.PreferredDate) &&
			existing.PreferredTime == b.PreferredTime &&
			existing.Status.IsActive() {
			return models.ErrSlotTaken
		}
	}
	b.ID = f.nextID
	f.nextID++
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeLedger) ExistsActiveSlot(ctx context.Context, workerID uint, date time.Time, timeSlot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.WorkerID == workerID && b.PreferredDate.Equal(date) && b.PreferredTime == timeSlot && b.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			copy := b
			return &copy, nil
		}
	}
	return nil, models.ErrBookingNotFound
}

func (f *fakeLedger) Update(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == b.ID {
			f.bookings[i] = *b
			return nil
		}
	}
	return models.ErrBookingNotFound
}

func (f *fakeLedger) ListByWorker(ctx context.Context, workerID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for i := len(f.bookings) - 1; i >= 0; i-- {
		if f.bookings[i].WorkerID == workerID {
			out = append(out, f.bookings[i])
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByCustomerEmail(ctx context.Context, email string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CustomerEmail == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListAll(ctx context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Booking(nil), f.bookings...), nil
}

func (f *fakeLedger) ListActiveInRange(ctx context.Context, workerID uint, from, to time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFrom, f.lastTo = from, to
	var out []models.Booking
	for _, b := range f.bookings {
		if b.WorkerID == workerID && b.Status.IsActive() &&
			!b.PreferredDate.Before(from) && !b.PreferredDate.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

// activeCount reports active bookings for a slot, for invariant assertions
func (f *fakeLedger) activeCount(workerID uint, date, timeSlot string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, b := range f.bookings {
		if b.WorkerID == workerID && b.PreferredDate.Format("2006-01-02") == date &&
			b.PreferredTime == timeSlot && b.Status.IsActive() {
			count++
		}
	}
	return count
}

type fakeDirectory struct {
	workers map[uint]*models.WorkerProfile
}

func (f *fakeDirectory) FindByID(ctx context.Context, id uint) (*models.WorkerProfile, error) {
	worker, ok := f.workers[id]
	if !ok {
		return nil, models.ErrWorkerNotFound
	}
	return worker, nil
}

type fakeSink struct {
	mu    sync.Mutex
	saved []models.Notification
}

func (f *fakeSink) Save(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, *n)
	return nil
}

func newService(t *testing.T) (*services.BookingService, *fakeLedger, *fakeSink) {
	t.Helper()
	ledger := newFakeLedger()
	sink := &fakeSink{}
	directory := &fakeDirectory{workers: map[uint]*models.WorkerProfile{
		5: {
			ID:       5,
			UserID:   50,
			WorkType: "Plumber",
			User:     models.User{ID: 50, FullName: "Moussa Diallo"},
		},
	}}
	return services.NewBookingService(ledger, directory, sink), ledger, sink
}

func validRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		WorkerID:        5,
		CustomerName:    "Aicha Mint",
		CustomerEmail:   "aicha@example.com",
		CustomerPhone:   "+22241234567",
		WorkDescription: "Kitchen sink is leaking",
		PreferredDate:   "2025-03-10",
		PreferredTime:   "10:00",
		Address:         "12 Rue des Artisans",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	svc, _, _ := newService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, uint(5), booking.WorkerID)
	assert.Equal(t, 1, booking.EstimatedHours) // defaulted
	assert.Equal(t, "2025-03-10", booking.PreferredDate.Format("2006-01-02"))
	assert.NotZero(t, booking.ID)
}

func TestCreateBooking_BudgetUrgencyAnnotation(t *testing.T) {
	svc, _, _ := newService(t)

	req := validRequest()
	req.Budget = "5000 MRU"
	req.Urgency = "high"

	booking, err := svc.CreateBooking(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Budget: 5000 MRU | Urgency: high", booking.SpecialRequirements)
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	svc, ledger, _ := newService(t)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.CustomerName = "Another Customer"
	second.CustomerEmail = "other@example.com"

	_, err = svc.CreateBooking(context.Background(), second)

	assert.ErrorIs(t, err, models.ErrSlotTaken)
	assert.Equal(t, 1, ledger.activeCount(5, "2025-03-10", "10:00"))
}

func TestCreateBooking_DifferentTimeSameDay(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.PreferredTime = "14:00"
	_, err = svc.CreateBooking(context.Background(), second)

	assert.NoError(t, err)
}

func TestCreateBooking_WorkerNotFound(t *testing.T) {
	svc, _, _ := newService(t)

	req := validRequest()
	req.WorkerID = 999

	_, err := svc.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, models.ErrWorkerNotFound)
}

func TestCreateBooking_EstimatedHoursBounds(t *testing.T) {
	cases := []struct {
		hours   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{12, false},
		{13, true},
	}

	for _, tc := range cases {
		svc, _, _ := newService(t)
		req := validRequest()
		req.EstimatedHours = &tc.hours

		_, err := svc.CreateBooking(context.Background(), req)

		if tc.wantErr {
			assert.ErrorIs(t, err, models.ErrValidation, "hours=%d", tc.hours)
		} else {
			assert.NoError(t, err, "hours=%d", tc.hours)
		}
	}
}

func TestCreateBooking_InvalidEmail(t *testing.T) {
	svc, _, _ := newService(t)

	req := validRequest()
	req.CustomerEmail = "not-an-email"

	_, err := svc.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateBooking_InvalidDate(t *testing.T) {
	svc, _, _ := newService(t)

	req := validRequest()
	req.PreferredDate = "10/03/2025"

	_, err := svc.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, models.ErrValidation)
}

// Two concurrent requests for the same slot: exactly one succeeds, the other
// observes the conflict error, never two successes.
func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	svc, ledger, _ := newService(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), validRequest())
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == models.ErrSlotTaken:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, ledger.activeCount(5, "2025-03-10", "10:00"))
}

func TestRebookAfterRejection(t *testing.T) {
	svc, _, _ := newService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	_, _, err = svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{
		Status: "rejected",
	})
	require.NoError(t, err)

	// Same slot can be requested again once the first booking is inactive
	_, err = svc.CreateBooking(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestUpdateStatus_AcceptedBuildsNotification(t *testing.T) {
	svc, _, sink := newService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	updated, notification, err := svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{
		Status:  "accepted",
		Message: "On my way",
	})

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, updated.Status)
	assert.Equal(t, "On my way", updated.SpecialRequirements)

	require.NotNil(t, notification)
	assert.Equal(t, "Moussa Diallo", notification.WorkerName)
	assert.Equal(t, "2025-03-10", notification.PreferredDate)
	assert.Equal(t, "10:00", notification.PreferredTime)
	assert.Equal(t, "aicha@example.com", notification.CustomerEmail)

	require.Len(t, sink.saved, 1)
	assert.Equal(t, "booking_accepted", sink.saved[0].Type)
}

func TestUpdateStatus_MessageOverwritesAnnotation(t *testing.T) {
	svc, _, _ := newService(t)

	req := validRequest()
	req.Budget = "5000 MRU"
	booking, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, booking.SpecialRequirements)

	updated, _, err := svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{
		Status:  "rejected",
		Message: "Not available that day",
	})

	require.NoError(t, err)
	assert.Equal(t, "Not available that day", updated.SpecialRequirements)
}

func TestUpdateStatus_NoNotificationOnRejection(t *testing.T) {
	svc, _, sink := newService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	_, notification, err := svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{
		Status: "rejected",
	})

	require.NoError(t, err)
	assert.Nil(t, notification)
	assert.Empty(t, sink.saved)
}

func TestUpdateStatus_InvalidTarget(t *testing.T) {
	svc, _, _ := newService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	for _, status := range []string{"pending", "done", ""} {
		_, _, err := svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{
			Status: status,
		})
		assert.ErrorIs(t, err, models.ErrInvalidStatus, "status=%q", status)
	}
}

func TestUpdateStatus_CancelledIsAccepted(t *testing.T) {
	svc, _, _ := newService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	updated, _, err := svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{
		Status: "cancelled",
	})

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, updated.Status)
}

// The workflow validates the target vocabulary only; it does not check that
// the current status legally permits the transition.
func TestUpdateStatus_PermissiveFromCompleted(t *testing.T) {
	svc, _, _ := newService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	_, _, err = svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{Status: "completed"})
	require.NoError(t, err)

	updated, _, err := svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRejected, updated.Status)
}

func TestUpdateStatus_BookingNotFound(t *testing.T) {
	svc, _, _ := newService(t)

	_, _, err := svc.UpdateStatus(context.Background(), 42, models.UpdateBookingStatusRequest{Status: "accepted"})

	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestAvailability_LeapYearRange(t *testing.T) {
	svc, ledger, _ := newService(t)

	_, err := svc.Availability(context.Background(), 5, 2, 2024)

	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", ledger.lastFrom.Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", ledger.lastTo.Format("2006-01-02"))
}

func TestAvailability_NonLeapYearRange(t *testing.T) {
	svc, ledger, _ := newService(t)

	_, err := svc.Availability(context.Background(), 5, 2, 2025)

	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", ledger.lastTo.Format("2006-01-02"))
}

func TestAvailability_InvalidMonth(t *testing.T) {
	svc, _, _ := newService(t)

	for _, month := range []int{0, 13} {
		_, err := svc.Availability(context.Background(), 5, month, 2025)
		assert.ErrorIs(t, err, models.ErrValidation, "month=%d", month)
	}
}

func TestAvailability_GroupsByStatus(t *testing.T) {
	svc, _, _ := newService(t)

	first, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.PreferredDate = "2025-03-15"
	_, err = svc.CreateBooking(context.Background(), second)
	require.NoError(t, err)

	_, _, err = svc.UpdateStatus(context.Background(), first.ID, models.UpdateBookingStatusRequest{Status: "accepted"})
	require.NoError(t, err)

	availability, err := svc.Availability(context.Background(), 5, 3, 2025)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"2025-03-10", "2025-03-15"}, availability.BookedDates)
	assert.Equal(t, []string{"2025-03-15"}, availability.PendingDates)
	assert.Equal(t, []string{"2025-03-10"}, availability.AcceptedDates)
}

func TestAvailability_ExcludesInactiveBookings(t *testing.T) {
	svc, _, _ := newService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	_, _, err = svc.UpdateStatus(context.Background(), booking.ID, models.UpdateBookingStatusRequest{Status: "rejected"})
	require.NoError(t, err)

	availability, err := svc.Availability(context.Background(), 5, 3, 2025)
	require.NoError(t, err)

	assert.Empty(t, availability.BookedDates)
	assert.Empty(t, availability.PendingDates)
	assert.Empty(t, availability.AcceptedDates)
}

// The example scenario end to end: create, duplicate, accept, availability.
func TestBookingScenario(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)

	_, err = svc.CreateBooking(ctx, validRequest())
	assert.ErrorIs(t, err, models.ErrSlotTaken)

	updated, notification, err := svc.UpdateStatus(ctx, booking.ID, models.UpdateBookingStatusRequest{
		Status:  "accepted",
		Message: "On my way",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, updated.Status)
	assert.Equal(t, "On my way", updated.SpecialRequirements)
	require.NotNil(t, notification)

	availability, err := svc.Availability(ctx, 5, 3, 2025)
	require.NoError(t, err)
	assert.Contains(t, availability.AcceptedDates, "2025-03-10")
}
