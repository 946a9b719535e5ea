package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"worker-marketplace-server/models"
)

// Initialize opens the database connection and runs migrations. The handle is
// returned to the caller for injection rather than held as package state.
func Initialize(connString string) (*gorm.DB, error) {
	if connString == "" {
		return nil, fmt.Errorf("DB_URL is required. Set DB_URL to a valid Postgres URL")
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(connString), &gorm.Config{
		Logger: gormLogger,
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey, which the
		// booking store relies on to report slot conflicts.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Successfully connected to database")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed successfully")

	return db, nil
}

// runMigrations creates or updates database tables
func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.ServiceCategory{},
		&models.WorkerProfile{},
		&models.WorkerApplication{},
		&models.Booking{},
		&models.LeaveRequest{},
		&models.Attendance{},
		&models.Payment{},
		&models.JobPost{},
		&models.Notification{},
		&models.RefreshToken{},
	); err != nil {
		return err
	}

	if err := migrateSlotIndex(db); err != nil {
		return err
	}

	return nil
}

// migrateSlotIndex creates the unique index protecting the booking slot.
// The index is partial: only pending/accepted bookings occupy a slot, so a
// rejected or completed booking never blocks a re-request for the same
// worker/date/time. This constraint is what keeps the system correct when two
// creation attempts race past the existence pre-check.
func migrateSlotIndex(db *gorm.DB) error {
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_booking_slot
		 ON bookings (worker_id, preferred_date, preferred_time)
		 WHERE status IN ('pending','accepted')`,
	).Error
}
