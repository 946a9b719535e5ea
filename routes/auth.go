package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
	"worker-marketplace-server/services"
	"worker-marketplace-server/utils"
)

// AuthHandler handles registration, login and token lifecycle
type AuthHandler struct {
	db  *gorm.DB
	jwt *services.JWTService
}

func NewAuthHandler(db *gorm.DB, jwt *services.JWTService) *AuthHandler {
	return &AuthHandler{db: db, jwt: jwt}
}

// RegisterPublic registers the unauthenticated auth routes
func (h *AuthHandler) RegisterPublic(router *gin.RouterGroup) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/refresh", h.refresh)
}

// RegisterProtected registers the authenticated auth routes
func (h *AuthHandler) RegisterProtected(router *gin.RouterGroup) {
	router.GET("/me", h.me)
	router.POST("/logout", h.logout)
}

type registerRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid email format",
		})
		return
	}
	if !utils.ValidatePhoneNumber(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid phone number format",
		})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Password must be at least 8 characters long",
		})
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "An account with this email already exists",
		})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to create account",
		})
		return
	}

	user := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
	}
	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to create account",
		})
		return
	}

	tokens, err := h.jwt.GenerateTokenPair(&user)
	if err != nil {
		log.Printf("Error generating tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Account created but login failed, please log in",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully",
		"user":    user,
		"tokens":  tokens,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "User account is deactivated",
		})
		return
	}

	tokens, err := h.jwt.GenerateTokenPair(&user)
	if err != nil {
		log.Printf("Error generating tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Login failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"tokens":  tokens,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	tokens, err := h.jwt.RotateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid or expired refresh token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tokens":  tokens,
	})
}

func (h *AuthHandler) me(c *gin.Context) {
	value, _ := c.Get("user")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    value,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := h.jwt.RevokeUserTokens(userID); err != nil {
		log.Printf("Error revoking tokens for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Logout failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
