package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
	"worker-marketplace-server/store"
)

// LeaveHandler handles worker leave requests and admin decisions
type LeaveHandler struct {
	db      *gorm.DB
	workers *store.WorkerStore
}

func NewLeaveHandler(db *gorm.DB, workers *store.WorkerStore) *LeaveHandler {
	return &LeaveHandler{db: db, workers: workers}
}

// RegisterProtected registers the worker-facing leave routes
func (h *LeaveHandler) RegisterProtected(router *gin.RouterGroup) {
	router.POST("/leave", h.fileLeave)
	router.GET("/leave/mine", h.myLeave)
}

// RegisterAdmin registers the admin leave routes
func (h *LeaveHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("/leave", h.listLeave)
	router.PUT("/leave/:id/decision", h.decideLeave)
}

func (h *LeaveHandler) fileLeave(c *gin.Context) {
	userID := c.GetUint("user_id")

	worker, err := h.workers.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker profile not found",
		})
		return
	}

	var req models.LeaveRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Start date must be in YYYY-MM-DD format",
		})
		return
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "End date must be in YYYY-MM-DD format",
		})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "End date must not be before start date",
		})
		return
	}

	leave := models.LeaveRequest{
		WorkerID:  worker.ID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    models.LeaveStatusPending,
	}
	if err := h.db.Create(&leave).Error; err != nil {
		log.Printf("Error creating leave request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to file leave request",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Leave request filed",
		"leave":   leave,
	})
}

func (h *LeaveHandler) myLeave(c *gin.Context) {
	userID := c.GetUint("user_id")

	worker, err := h.workers.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker profile not found",
		})
		return
	}

	var leaves []models.LeaveRequest
	if err := h.db.Where("worker_id = ?", worker.ID).Order("created_at DESC").Find(&leaves).Error; err != nil {
		log.Printf("Error fetching leave requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch leave requests",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"leaves":  leaves,
	})
}

func (h *LeaveHandler) listLeave(c *gin.Context) {
	query := h.db.Preload("Worker").Preload("Worker.User").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var leaves []models.LeaveRequest
	if err := query.Find(&leaves).Error; err != nil {
		log.Printf("Error fetching leave requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch leave requests",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"leaves":  leaves,
	})
}

func (h *LeaveHandler) decideLeave(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid leave request ID",
		})
		return
	}

	var req models.LeaveDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	status := models.LeaveStatus(req.Status)
	if status != models.LeaveStatusApproved && status != models.LeaveStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Status must be approved or rejected",
		})
		return
	}

	var leave models.LeaveRequest
	if err := h.db.First(&leave, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Leave request not found",
		})
		return
	}

	leave.Status = status
	leave.AdminNote = req.AdminNote
	if err := h.db.Save(&leave).Error; err != nil {
		log.Printf("Error deciding leave request %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to decide leave request",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"leave":   leave,
	})
}
