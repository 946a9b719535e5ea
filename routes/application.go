package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
)

// ApplicationHandler handles a user's side of worker applications
type ApplicationHandler struct {
	db *gorm.DB
}

func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{db: db}
}

// RegisterProtected registers the authenticated application routes
func (h *ApplicationHandler) RegisterProtected(router *gin.RouterGroup) {
	router.POST("/applications", h.apply)
	router.GET("/applications/mine", h.myApplications)
}

func (h *ApplicationHandler) apply(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.WorkerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	// One open application at a time
	var pending int64
	h.db.Model(&models.WorkerApplication{}).
		Where("user_id = ? AND status = ?", userID, models.ApplicationStatusPending).
		Count(&pending)
	if pending > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "You already have a pending application",
		})
		return
	}

	var existingProfile models.WorkerProfile
	if err := h.db.Where("user_id = ?", userID).First(&existingProfile).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "You are already registered as a worker",
		})
		return
	}

	application := models.WorkerApplication{
		UserID:     userID,
		WorkType:   req.WorkType,
		City:       req.City,
		Experience: req.Experience,
		Skills:     req.Skills,
		HourlyRate: req.HourlyRate,
		Status:     models.ApplicationStatusPending,
	}
	if err := h.db.Create(&application).Error; err != nil {
		log.Printf("Error creating application: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to submit application",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Application submitted successfully",
		"application": application,
	})
}

func (h *ApplicationHandler) myApplications(c *gin.Context) {
	userID := c.GetUint("user_id")

	var applications []models.WorkerApplication
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&applications).Error; err != nil {
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
