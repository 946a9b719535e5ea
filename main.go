package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"worker-marketplace-server/config"
	"worker-marketplace-server/database"
	"worker-marketplace-server/jobs"
	"worker-marketplace-server/middleware"
	"worker-marketplace-server/models"
	"worker-marketplace-server/routes"
	"worker-marketplace-server/services"
	"worker-marketplace-server/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Stores
	bookingStore := store.NewBookingStore(db)
	workerStore := store.NewWorkerStore(db)
	notificationStore := store.NewNotificationStore(db)

	// Services
	bookingService := services.NewBookingService(bookingStore, workerStore, notificationStore)
	jwtService := services.NewJWTService(db, cfg.JWT)
	paymentService := services.NewPaymentService(db, services.StubGateway{})

	// Handlers
	authHandler := routes.NewAuthHandler(db, jwtService)
	bookingHandler := routes.NewBookingHandler(bookingService, workerStore)
	workerHandler := routes.NewWorkerHandler(workerStore)
	categoryHandler := routes.NewCategoryHandler(db)
	applicationHandler := routes.NewApplicationHandler(db)
	adminHandler := routes.NewAdminHandler(db)
	leaveHandler := routes.NewLeaveHandler(db, workerStore)
	attendanceHandler := routes.NewAttendanceHandler(db, workerStore)
	paymentHandler := routes.NewPaymentHandler(paymentService)
	jobPostHandler := routes.NewJobPostHandler(db)

	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Worker Marketplace Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		// Auth routes with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		authHandler.RegisterPublic(authRoutes)

		// Public routes
		bookingHandler.RegisterPublic(api)
		workerHandler.RegisterPublic(api)
		categoryHandler.RegisterPublic(api)
		jobPostHandler.RegisterPublic(api)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(db, cfg.JWT.Secret))
		{
			authHandler.RegisterProtected(protected.Group("/auth"))
			bookingHandler.RegisterProtected(protected)
			workerHandler.RegisterProtected(protected)
			applicationHandler.RegisterProtected(protected)
			leaveHandler.RegisterProtected(protected)
			attendanceHandler.RegisterProtected(protected)
			paymentHandler.RegisterProtected(protected)
			jobPostHandler.RegisterProtected(protected)
		}

		// Admin routes
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(db, cfg.JWT.Secret))
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminHandler.Register(adminRoutes)
			bookingHandler.RegisterAdmin(adminRoutes)
			categoryHandler.RegisterAdmin(adminRoutes)
			leaveHandler.RegisterAdmin(adminRoutes)
			jobPostHandler.RegisterAdmin(adminRoutes)
		}
	}

	// Background jobs
	tokenCleanup := jobs.NewTokenCleanupJob(jwtService, 24*time.Hour)
	tokenCleanup.Start()
	defer tokenCleanup.Stop()

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run("0.0.0.0:" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
