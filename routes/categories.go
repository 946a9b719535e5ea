package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
)

// CategoryHandler handles public reads and admin CRUD for service categories
type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// RegisterPublic registers the unauthenticated category routes
func (h *CategoryHandler) RegisterPublic(router *gin.RouterGroup) {
	router.GET("/categories", h.listCategories)
}

// RegisterAdmin registers the admin category routes
func (h *CategoryHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("/categories", h.listAllCategories)
	router.POST("/categories", h.createCategory)
	router.PUT("/categories/:id", h.updateCategory)
	router.DELETE("/categories/:id", h.deleteCategory)
}

func (h *CategoryHandler) listCategories(c *gin.Context) {
	var categories []models.ServiceCategory
	if err := h.db.Where("is_active = ?", true).Order("sort_order, name").Find(&categories).Error; err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

func (h *CategoryHandler) listAllCategories(c *gin.Context) {
	var categories []models.ServiceCategory
	if err := h.db.Order("sort_order, name").Find(&categories).Error; err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

func (h *CategoryHandler) createCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	category := models.ServiceCategory{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if err := h.db.Create(&category).Error; err != nil {
		log.Printf("Error creating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to create category",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"category": category,
	})
}

func (h *CategoryHandler) updateCategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid category ID",
		})
		return
	}

	var category models.ServiceCategory
	if err := h.db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Category not found",
		})
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	category.Icon = req.Icon
	category.SortOrder = req.SortOrder

	if err := h.db.Save(&category).Error; err != nil {
		log.Printf("Error updating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update category",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

func (h *CategoryHandler) deleteCategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid category ID",
		})
		return
	}

	if err := h.db.Delete(&models.ServiceCategory{}, id).Error; err != nil {
		log.Printf("Error deleting category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to delete category",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}
