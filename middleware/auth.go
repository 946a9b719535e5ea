package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
	"worker-marketplace-server/utils"
)

// AuthMiddleware validates bearer tokens and sets the user in the context
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization header required",
				"message": "Please provide a valid token",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token format",
				"message": "Token must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(tokenString, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "User not found",
				"message": "User associated with token not found",
			})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "User inactive",
				"message": "User account is deactivated",
			})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("user_role", string(user.Role))

		c.Next()
	}
}

// RequireRole aborts unless the authenticated user carries the given role.
// Must run after AuthMiddleware.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Please log in first",
			})
			c.Abort()
			return
		}

		user, ok := value.(models.User)
		if !ok || user.Role != role {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Insufficient permissions",
				"message": "You do not have access to this resource",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
