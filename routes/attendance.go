package routes

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-marketplace-server/models"
	"worker-marketplace-server/store"
)

// AttendanceHandler handles worker check-in/check-out and history
type AttendanceHandler struct {
	db      *gorm.DB
	workers *store.WorkerStore
}

func NewAttendanceHandler(db *gorm.DB, workers *store.WorkerStore) *AttendanceHandler {
	return &AttendanceHandler{db: db, workers: workers}
}

// RegisterProtected registers the authenticated attendance routes
func (h *AttendanceHandler) RegisterProtected(router *gin.RouterGroup) {
	router.POST("/attendance/check-in", h.checkIn)
	router.POST("/attendance/check-out", h.checkOut)
	router.GET("/attendance/today", h.today)
	router.GET("/attendance/history", h.history)
}

func (h *AttendanceHandler) resolveWorker(c *gin.Context) (*models.WorkerProfile, bool) {
	userID := c.GetUint("user_id")

	worker, err := h.workers.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Worker profile not found",
		})
		return nil, false
	}
	return worker, true
}

// todayAttendance loads or initializes the worker's attendance row for today
func (h *AttendanceHandler) todayAttendance(workerID uint) (*models.Attendance, error) {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var attendance models.Attendance
	err := h.db.Where("worker_id = ? AND date = ?", workerID, day).First(&attendance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		attendance = models.Attendance{WorkerID: workerID, Date: day}
		return &attendance, nil
	}
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (h *AttendanceHandler) checkIn(c *gin.Context) {
	worker, ok := h.resolveWorker(c)
	if !ok {
		return
	}

	attendance, err := h.todayAttendance(worker.ID)
	if err != nil {
		log.Printf("Error loading attendance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load attendance",
		})
		return
	}

	if err := attendance.CheckIn(time.Now().UTC()); err != nil {
		if errors.Is(err, models.ErrAlreadyCheckedIn) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Already checked in. Check out first.",
			})
			return
		}
		log.Printf("Error checking in: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to check in",
		})
		return
	}

	if err := h.db.Save(attendance).Error; err != nil {
		log.Printf("Error saving attendance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to save attendance",
		})
		return
	}

	sessions, _ := attendance.GetSessions()
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Checked in",
		"sessions": sessions,
	})
}

func (h *AttendanceHandler) checkOut(c *gin.Context) {
	worker, ok := h.resolveWorker(c)
	if !ok {
		return
	}

	attendance, err := h.todayAttendance(worker.ID)
	if err != nil {
		log.Printf("Error loading attendance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load attendance",
		})
		return
	}

	if err := attendance.CheckOut(time.Now().UTC()); err != nil {
		if errors.Is(err, models.ErrNotCheckedIn) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Not checked in",
			})
			return
		}
		log.Printf("Error checking out: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to check out",
		})
		return
	}

	if err := h.db.Save(attendance).Error; err != nil {
		log.Printf("Error saving attendance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to save attendance",
		})
		return
	}

	sessions, _ := attendance.GetSessions()
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Checked out",
		"sessions": sessions,
	})
}

func (h *AttendanceHandler) today(c *gin.Context) {
	worker, ok := h.resolveWorker(c)
	if !ok {
		return
	}

	attendance, err := h.todayAttendance(worker.ID)
	if err != nil {
		log.Printf("Error loading attendance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load attendance",
		})
		return
	}

	sessions, _ := attendance.GetSessions()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"date":       attendance.Date.Format("2006-01-02"),
		"checked_in": attendance.IsCheckedIn(),
		"sessions":   sessions,
	})
}

func (h *AttendanceHandler) history(c *gin.Context) {
	worker, ok := h.resolveWorker(c)
	if !ok {
		return
	}

	var records []models.Attendance
	if err := h.db.Where("worker_id = ?", worker.ID).Order("date DESC").Limit(31).Find(&records).Error; err != nil {
		log.Printf("Error fetching attendance history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch attendance history",
		})
		return
	}

	type dayView struct {
		Date     string                     `json:"date"`
		Sessions []models.AttendanceSession `json:"sessions"`
	}
	history := make([]dayView, 0, len(records))
	for i := range records {
		sessions, _ := records[i].GetSessions()
		history = append(history, dayView{
			Date:     records[i].Date.Format("2006-01-02"),
			Sessions: sessions,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
	})
}
