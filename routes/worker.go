package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"worker-marketplace-server/models"
	"worker-marketplace-server/store"
)

// WorkerHandler exposes the worker directory over HTTP
type WorkerHandler struct {
	workers *store.WorkerStore
}

func NewWorkerHandler(workers *store.WorkerStore) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

// RegisterPublic registers the unauthenticated worker directory routes
func (h *WorkerHandler) RegisterPublic(router *gin.RouterGroup) {
	router.GET("/workers", h.listAvailableWorkers)
	router.GET("/workers/:id", h.getWorkerProfile)
}

// RegisterProtected registers the authenticated worker routes
func (h *WorkerHandler) RegisterProtected(router *gin.RouterGroup) {
	router.GET("/worker/profile", h.getMyProfile)
	router.PUT("/worker/profile", h.updateMyProfile)
	router.PATCH("/worker/availability", h.setAvailability)
}

func (h *WorkerHandler) listAvailableWorkers(c *gin.Context) {
	workType := c.Query("work_type")
	city := c.Query("city")
	limit := 20

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	workers, err := h.workers.ListAvailable(c.Request.Context(), workType, city, limit)
	if err != nil {
		log.Printf("Error fetching workers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch workers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"workers": workers,
	})
}

func (h *WorkerHandler) getWorkerProfile(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid worker ID",
		})
		return
	}

	worker, err := h.workers.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"worker":  worker,
	})
}

func (h *WorkerHandler) getMyProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	worker, err := h.workers.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker profile not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"worker":  worker,
	})
}

func (h *WorkerHandler) updateMyProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	worker, err := h.workers.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker profile not found",
		})
		return
	}

	var req models.WorkerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	worker.WorkType = req.WorkType
	worker.City = req.City
	worker.Address = req.Address
	worker.Experience = req.Experience
	worker.Skills = req.Skills
	worker.HourlyRate = req.HourlyRate

	if err := h.workers.Update(c.Request.Context(), worker); err != nil {
		log.Printf("Error updating worker profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update worker profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"worker":  worker,
	})
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// setAvailability flips the advisory availability flag. The slot conflict
// guard does not consult it.
func (h *WorkerHandler) setAvailability(c *gin.Context) {
	userID := c.GetUint("user_id")

	worker, err := h.workers.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker profile not found",
		})
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	worker.IsAvailable = *req.IsAvailable
	if err := h.workers.Update(c.Request.Context(), worker); err != nil {
		log.Printf("Error updating worker availability: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update availability",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_available": worker.IsAvailable,
	})
}
