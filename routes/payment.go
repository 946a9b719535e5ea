package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"worker-marketplace-server/models"
	"worker-marketplace-server/services"
)

// PaymentHandler records payments against bookings
type PaymentHandler struct {
	svc *services.PaymentService
}

func NewPaymentHandler(svc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// RegisterProtected registers the authenticated payment routes
func (h *PaymentHandler) RegisterProtected(router *gin.RouterGroup) {
	router.POST("/payments", h.recordPayment)
	router.GET("/bookings/:id/payments", h.bookingPayments)
}

func (h *PaymentHandler) recordPayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	payment, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Booking not found",
			})
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
		default:
			log.Printf("Error recording payment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to record payment",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"payment": payment,
	})
}

func (h *PaymentHandler) bookingPayments(c *gin.Context) {
	bookingID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid booking ID",
		})
		return
	}

	payments, err := h.svc.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		log.Printf("Error fetching payments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch payments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"payments": payments,
	})
}
