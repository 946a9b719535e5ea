package middleware

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter stores rate limiters keyed by client
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mutex    sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
}

// GetLimiter returns a limiter for a key with the given limits
func (rl *RateLimiter) GetLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(limit, burst)
		rl.limiters[key] = limiter
	}
	rl.lastSeen[key] = time.Now()
	return limiter
}

// Cleanup removes limiters idle for more than an hour
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	for key, t := range rl.lastSeen {
		if now.Sub(t) > time.Hour {
			delete(rl.limiters, key)
			delete(rl.lastSeen, key)
		}
	}
}

var globalRateLimiter = NewRateLimiter()

// RateLimitMiddleware implements per-IP rate limiting
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + "|" + c.ClientIP()

		// Reads are cheap, allow a higher rate than mutations
		var lim rate.Limit
		var burst int
		if c.Request.Method == http.MethodGet {
			lim = rate.Every(time.Second)
			burst = 10
		} else {
			lim = rate.Every(time.Minute / 20)
			burst = 10
		}

		limiter := globalRateLimiter.GetLimiter(key, lim, burst)

		if !limiter.Allow() {
			log.Printf("🚫 Rate limit exceeded for %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests. Please try again later.",
				"retry_after": 60,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthRateLimitMiddleware implements stricter rate limiting for auth endpoints
func AuthRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "auth|" + c.ClientIP()
		limiter := globalRateLimiter.GetLimiter(key, rate.Every(time.Minute/5), 5)

		if !limiter.Allow() {
			log.Printf("🚫 Auth rate limit exceeded for IP: %s", c.ClientIP())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Authentication rate limit exceeded",
				"message":     "Too many authentication attempts. Please try again later.",
				"retry_after": 300,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		c.Header("Server", "")

		c.Next()
	}
}

// InputValidationMiddleware enforces request size and content type
func InputValidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > 10*1024*1024 { // 10MB limit
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":   "Request too large",
				"message": "Request body exceeds maximum size limit",
			})
			c.Abort()
			return
		}

		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
			contentType := c.GetHeader("Content-Type")
			if contentType != "" && !strings.Contains(contentType, "application/json") {
				c.JSON(http.StatusUnsupportedMediaType, gin.H{
					"error":   "Invalid content type",
					"message": "Content-Type must be application/json",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
