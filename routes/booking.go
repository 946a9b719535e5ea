package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"worker-marketplace-server/middleware"
	"worker-marketplace-server/models"
	"worker-marketplace-server/services"
)

// workerResolver looks up the worker profile behind an authenticated user.
type workerResolver interface {
	FindByUserID(ctx context.Context, userID uint) (*models.WorkerProfile, error)
}

// BookingHandler exposes the booking subsystem over HTTP
type BookingHandler struct {
	svc     *services.BookingService
	workers workerResolver
}

func NewBookingHandler(svc *services.BookingService, workers workerResolver) *BookingHandler {
	return &BookingHandler{svc: svc, workers: workers}
}

// RegisterPublic registers the unauthenticated booking routes
func (h *BookingHandler) RegisterPublic(router *gin.RouterGroup) {
	router.POST("/bookings", h.createBooking)
	router.GET("/bookings/customer/:email", h.customerBookings)
	router.GET("/workers/:id/availability/:year/:month", h.workerAvailability)
}

// RegisterProtected registers the authenticated booking routes
func (h *BookingHandler) RegisterProtected(router *gin.RouterGroup) {
	router.GET("/bookings/:id", h.getBooking)
	router.PUT("/bookings/:id/status", h.updateBookingStatus)
	router.GET("/worker/bookings", h.myWorkerBookings)
}

// RegisterAdmin registers the admin booking routes
func (h *BookingHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("/bookings", h.allBookings)
}

func (h *BookingHandler) createBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	booking, err := h.svc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.reportBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking created successfully",
		"booking": booking,
	})
}

func (h *BookingHandler) updateBookingStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid booking ID",
		})
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	booking, notification, err := h.svc.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.reportBookingError(c, err)
		return
	}

	response := gin.H{
		"success": true,
		"message": "Booking status updated",
		"booking": booking,
	}
	if notification != nil {
		response["notification"] = notification
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) getBooking(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid booking ID",
		})
		return
	}

	booking, err := h.svc.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.reportBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": booking,
	})
}

// myWorkerBookings lists the authenticated worker's bookings, newest first
func (h *BookingHandler) myWorkerBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	worker, err := h.workers.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker profile not found",
		})
		return
	}

	bookings, err := h.svc.WorkerBookings(c.Request.Context(), worker.ID)
	if err != nil {
		log.Printf("Error fetching worker bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch bookings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
	})
}

func (h *BookingHandler) customerBookings(c *gin.Context) {
	email := c.Param("email")

	bookings, err := h.svc.CustomerBookings(c.Request.Context(), email)
	if err != nil {
		log.Printf("Error fetching customer bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch bookings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
	})
}

func (h *BookingHandler) allBookings(c *gin.Context) {
	bookings, err := h.svc.AllBookings(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching all bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch bookings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
	})
}

func (h *BookingHandler) workerAvailability(c *gin.Context) {
	workerID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid worker ID",
		})
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid year",
		})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid month",
		})
		return
	}

	availability, err := h.svc.Availability(c.Request.Context(), workerID, month, year)
	if err != nil {
		h.reportBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"bookedDates":   availability.BookedDates,
		"pendingDates":  availability.PendingDates,
		"acceptedDates": availability.AcceptedDates,
	})
}

// reportBookingError maps domain errors onto HTTP responses. Both conflict
// paths (pre-check and storage constraint) arrive here as the same error and
// produce the identical user-facing message.
func (h *BookingHandler) reportBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSlotTaken):
		middleware.CountSlotConflict()
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "This time slot is already booked. Please choose a different time.",
		})
	case errors.Is(err, models.ErrWorkerNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker not found",
		})
	case errors.Is(err, models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Booking not found",
		})
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
	default:
		log.Printf("Booking operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Something went wrong. Please try again.",
		})
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
