package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worker-marketplace-server/models"
	"worker-marketplace-server/services"
)

type memoryLedger struct {
	bookings []models.Booking
	nextID   uint
}

func (m *memoryLedger) Create(ctx context.Context, b *models.Booking) error {
	for _, existing := range m.bookings {
		if existing.WorkerID == b.WorkerID &&
			existing.PreferredDate.Equal(b.PreferredDate) &&
			existing.PreferredTime == b.PreferredTime &&
			existing.Status.IsActive() {
			return models.ErrSlotTaken
		}
	}
	m.nextID++
	b.ID = m.nextID
	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *memoryLedger) ExistsActiveSlot(ctx context.Context, workerID uint, date time.Time, timeSlot string) (bool, error) {
	for _, b := range m.bookings {
		if b.WorkerID == workerID && b.PreferredDate.Equal(date) && b.PreferredTime == timeSlot && b.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryLedger) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id {
			found := b
			return &found, nil
		}
	}
	return nil, models.ErrBookingNotFound
}

func (m *memoryLedger) Update(ctx context.Context, b *models.Booking) error {
	for i := range m.bookings {
		if m.bookings[i].ID == b.ID {
			m.bookings[i] = *b
			return nil
		}
	}
	return models.ErrBookingNotFound
}

func (m *memoryLedger) ListByWorker(ctx context.Context, workerID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.WorkerID == workerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryLedger) ListByCustomerEmail(ctx context.Context, email string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.CustomerEmail == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryLedger) ListAll(ctx context.Context) ([]models.Booking, error) {
	return append([]models.Booking(nil), m.bookings...), nil
}

func (m *memoryLedger) ListActiveInRange(ctx context.Context, workerID uint, from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.WorkerID == workerID && b.Status.IsActive() &&
			!b.PreferredDate.Before(from) && !b.PreferredDate.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memoryDirectory struct {
	workers map[uint]*models.WorkerProfile
}

func (m *memoryDirectory) FindByID(ctx context.Context, id uint) (*models.WorkerProfile, error) {
	worker, ok := m.workers[id]
	if !ok {
		return nil, models.ErrWorkerNotFound
	}
	return worker, nil
}

func (m *memoryDirectory) FindByUserID(ctx context.Context, userID uint) (*models.WorkerProfile, error) {
	for _, worker := range m.workers {
		if worker.UserID == userID {
			return worker, nil
		}
	}
	return nil, models.ErrWorkerNotFound
}

type discardSink struct{}

func (discardSink) Save(ctx context.Context, n *models.Notification) error { return nil }

func newBookingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	directory := &memoryDirectory{workers: map[uint]*models.WorkerProfile{
		5: {ID: 5, UserID: 50, WorkType: "Plumber", User: models.User{ID: 50, FullName: "Moussa Diallo"}},
	}}
	svc := services.NewBookingService(&memoryLedger{}, directory, discardSink{})
	handler := NewBookingHandler(svc, directory)

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterPublic(api)
	// Registered without the auth middleware so the handlers are exercised
	// directly.
	handler.RegisterProtected(api)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const createBody = `{
	"worker_id": 5,
	"customer_name": "Aicha Mint",
	"customer_email": "aicha@example.com",
	"customer_phone": "+22241234567",
	"work_description": "Kitchen sink is leaking",
	"preferred_date": "2025-03-10",
	"preferred_time": "10:00",
	"address": "12 Rue des Artisans"
}`

func TestCreateBookingEndpoint(t *testing.T) {
	router := newBookingRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/bookings", createBody)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Success bool           `json:"success"`
		Booking models.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.BookingStatusPending, resp.Booking.Status)
	assert.NotZero(t, resp.Booking.ID)
}

func TestCreateBookingEndpoint_SlotConflict(t *testing.T) {
	router := newBookingRouter(t)

	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/v1/bookings", createBody).Code)

	w := doJSON(router, http.MethodPost, "/api/v1/bookings", createBody)

	require.Equal(t, http.StatusConflict, w.Code)
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "This time slot is already booked. Please choose a different time.", resp.Message)
}

func TestCreateBookingEndpoint_WorkerNotFound(t *testing.T) {
	router := newBookingRouter(t)

	body := strings.Replace(createBody, `"worker_id": 5`, `"worker_id": 999`, 1)
	w := doJSON(router, http.MethodPost, "/api/v1/bookings", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingEndpoint_MissingFields(t *testing.T) {
	router := newBookingRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/bookings", `{"worker_id": 5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBookingStatusEndpoint(t *testing.T) {
	router := newBookingRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/v1/bookings", createBody).Code)

	w := doJSON(router, http.MethodPut, "/api/v1/bookings/1/status", `{"status":"accepted","message":"On my way"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Booking      models.Booking             `json:"booking"`
		Notification models.BookingNotification `json:"notification"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.BookingStatusAccepted, resp.Booking.Status)
	assert.Equal(t, "On my way", resp.Booking.SpecialRequirements)
	assert.Equal(t, "Moussa Diallo", resp.Notification.WorkerName)
}

func TestUpdateBookingStatusEndpoint_InvalidStatus(t *testing.T) {
	router := newBookingRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/v1/bookings", createBody).Code)

	w := doJSON(router, http.MethodPut, "/api/v1/bookings/1/status", `{"status":"archived"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBookingStatusEndpoint_NotFound(t *testing.T) {
	router := newBookingRouter(t)

	w := doJSON(router, http.MethodPut, "/api/v1/bookings/42/status", `{"status":"accepted"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkerAvailabilityEndpoint(t *testing.T) {
	router := newBookingRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/v1/bookings", createBody).Code)

	w := doJSON(router, http.MethodGet, "/api/v1/workers/5/availability/2025/3", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success       bool     `json:"success"`
		BookedDates   []string `json:"bookedDates"`
		PendingDates  []string `json:"pendingDates"`
		AcceptedDates []string `json:"acceptedDates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"2025-03-10"}, resp.BookedDates)
	assert.Equal(t, []string{"2025-03-10"}, resp.PendingDates)
	assert.Empty(t, resp.AcceptedDates)
}

func TestWorkerAvailabilityEndpoint_EmptyMonth(t *testing.T) {
	router := newBookingRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/workers/5/availability/2025/7", "")

	require.Equal(t, http.StatusOK, w.Code)
	// Empty arrays, never null.
	assert.Contains(t, w.Body.String(), `"bookedDates":[]`)
	assert.Contains(t, w.Body.String(), `"pendingDates":[]`)
	assert.Contains(t, w.Body.String(), `"acceptedDates":[]`)
}

func TestWorkerAvailabilityEndpoint_InvalidMonth(t *testing.T) {
	router := newBookingRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/workers/5/availability/2025/13", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerBookingsEndpoint(t *testing.T) {
	router := newBookingRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/v1/bookings", createBody).Code)

	w := doJSON(router, http.MethodGet, "/api/v1/bookings/customer/aicha@example.com", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Bookings []models.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "aicha@example.com", resp.Bookings[0].CustomerEmail)
}
