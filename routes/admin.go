package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
)

// AdminHandler handles dashboard stats, user management and worker
// application approval
type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// Register registers the admin routes
func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/dashboard/stats", h.dashboardStats)

	router.GET("/users", h.listUsers)
	router.PATCH("/users/:id/status", h.updateUserStatus)

	router.GET("/applications", h.listApplications)
	router.PUT("/applications/:id/decision", h.decideApplication)
}

func (h *AdminHandler) dashboardStats(c *gin.Context) {
	var userCount, workerCount, bookingCount, pendingBookings, pendingApplications int64

	h.db.Model(&models.User{}).Count(&userCount)
	h.db.Model(&models.WorkerProfile{}).Count(&workerCount)
	h.db.Model(&models.Booking{}).Count(&bookingCount)
	h.db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPending).Count(&pendingBookings)
	h.db.Model(&models.WorkerApplication{}).Where("status = ?", models.ApplicationStatusPending).Count(&pendingApplications)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"total_users":          userCount,
			"total_workers":        workerCount,
			"total_bookings":       bookingCount,
			"pending_bookings":     pendingBookings,
			"pending_applications": pendingApplications,
		},
	})
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Printf("Error fetching users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
	})
}

type userStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (h *AdminHandler) updateUserStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid user ID",
		})
		return
	}

	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "User not found",
		})
		return
	}

	user.IsActive = *req.IsActive
	if err := h.db.Save(&user).Error; err != nil {
		log.Printf("Error updating user status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update user status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

func (h *AdminHandler) listApplications(c *gin.Context) {
	query := h.db.Preload("User").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var applications []models.WorkerApplication
	if err := query.Find(&applications).Error; err != nil {
		log.Printf("Error fetching applications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch applications",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": applications,
	})
}

// decideApplication approves or rejects a worker application. Approval
// provisions the worker profile and promotes the user to the worker role,
// all-or-nothing.
func (h *AdminHandler) decideApplication(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid application ID",
		})
		return
	}

	var req models.ApplicationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	status := models.ApplicationStatus(req.Status)
	if status != models.ApplicationStatusApproved && status != models.ApplicationStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Status must be approved or rejected",
		})
		return
	}

	var application models.WorkerApplication
	if err := h.db.First(&application, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Application not found",
		})
		return
	}

	if application.Status != models.ApplicationStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Application has already been decided",
		})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		application.Status = status
		application.AdminNote = req.AdminNote
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		if status != models.ApplicationStatusApproved {
			return nil
		}

		worker := models.WorkerProfile{
			UserID:      application.UserID,
			WorkType:    application.WorkType,
			City:        application.City,
			Experience:  application.Experience,
			Skills:      application.Skills,
			HourlyRate:  application.HourlyRate,
			IsAvailable: true,
			IsVerified:  true,
		}
		if err := tx.Create(&worker).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", application.UserID).
			Update("role", models.RoleWorker).Error
	})
	if err != nil {
		log.Printf("Error deciding application %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to decide application",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"application": application,
	})
}
