package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
)

// JobPostHandler handles open job posts customers publish for workers
type JobPostHandler struct {
	db *gorm.DB
}

func NewJobPostHandler(db *gorm.DB) *JobPostHandler {
	return &JobPostHandler{db: db}
}

// RegisterPublic registers the unauthenticated job post routes
func (h *JobPostHandler) RegisterPublic(router *gin.RouterGroup) {
	router.GET("/jobs", h.listJobPosts)
	router.GET("/jobs/:id", h.getJobPost)
}

// RegisterProtected registers the authenticated job post routes
func (h *JobPostHandler) RegisterProtected(router *gin.RouterGroup) {
	router.POST("/jobs", h.createJobPost)
	router.PUT("/jobs/:id", h.updateJobPost)
	router.POST("/jobs/:id/close", h.closeJobPost)
}

// RegisterAdmin registers the admin job post routes
func (h *JobPostHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.DELETE("/jobs/:id", h.deleteJobPost)
}

func (h *JobPostHandler) listJobPosts(c *gin.Context) {
	query := h.db.Preload("User").Where("is_open = ?", true).Order("created_at DESC")
	if workType := c.Query("work_type"); workType != "" {
		query = query.Where("work_type = ?", workType)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city ILIKE ?", "%"+city+"%")
	}

	var posts []models.JobPost
	if err := query.Limit(50).Find(&posts).Error; err != nil {
		log.Printf("Error fetching job posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch job posts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"jobs":    posts,
	})
}

func (h *JobPostHandler) getJobPost(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid job post ID",
		})
		return
	}

	var post models.JobPost
	if err := h.db.Preload("User").First(&post, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Job post not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job":     post,
	})
}

func (h *JobPostHandler) createJobPost(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.JobPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	post := models.JobPost{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		WorkType:    req.WorkType,
		City:        req.City,
		Budget:      req.Budget,
		IsOpen:      true,
	}
	if err := h.db.Create(&post).Error; err != nil {
		log.Printf("Error creating job post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to create job post",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"job":     post,
	})
}

// loadOwnedPost loads a post and checks it belongs to the authenticated user
func (h *JobPostHandler) loadOwnedPost(c *gin.Context) (*models.JobPost, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid job post ID",
		})
		return nil, false
	}

	var post models.JobPost
	if err := h.db.First(&post, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Job post not found",
		})
		return nil, false
	}

	if post.UserID != c.GetUint("user_id") {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "You do not own this job post",
		})
		return nil, false
	}

	return &post, true
}

func (h *JobPostHandler) updateJobPost(c *gin.Context) {
	post, ok := h.loadOwnedPost(c)
	if !ok {
		return
	}

	var req models.JobPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	post.Title = req.Title
	post.Description = req.Description
	post.WorkType = req.WorkType
	post.City = req.City
	post.Budget = req.Budget

	if err := h.db.Save(post).Error; err != nil {
		log.Printf("Error updating job post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update job post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job":     post,
	})
}

func (h *JobPostHandler) closeJobPost(c *gin.Context) {
	post, ok := h.loadOwnedPost(c)
	if !ok {
		return
	}

	post.IsOpen = false
	if err := h.db.Save(post).Error; err != nil {
		log.Printf("Error closing job post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to close job post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job":     post,
	})
}

func (h *JobPostHandler) deleteJobPost(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid job post ID",
		})
		return
	}

	if err := h.db.Delete(&models.JobPost{}, id).Error; err != nil {
		log.Printf("Error deleting job post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to delete job post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job post deleted",
	})
}
