package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"worker-marketplace-server/models"
)

// WorkerStore is the gorm-backed worker directory.
type WorkerStore struct {
	db *gorm.DB
}

func NewWorkerStore(db *gorm.DB) *WorkerStore {
	return &WorkerStore{db: db}
}

func (s *WorkerStore) FindByID(ctx context.Context, id uint) (*models.WorkerProfile, error) {
	var worker models.WorkerProfile
	err := s.db.WithContext(ctx).Preload("User").First(&worker, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrWorkerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (s *WorkerStore) FindByUserID(ctx context.Context, userID uint) (*models.WorkerProfile, error) {
	var worker models.WorkerProfile
	err := s.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrWorkerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// ListAvailable returns available workers, optionally filtered by work type
// and city.
func (s *WorkerStore) ListAvailable(ctx context.Context, workType, city string, limit int) ([]models.WorkerProfile, error) {
	query := s.db.WithContext(ctx).Preload("User").Where("is_available = ?", true)

	if workType != "" {
		query = query.Where("work_type = ?", workType)
	}
	if city != "" {
		query = query.Where("city ILIKE ?", "%"+city+"%")
	}

	var workers []models.WorkerProfile
	err := query.Limit(limit).Find(&workers).Error
	return workers, err
}

func (s *WorkerStore) Create(ctx context.Context, worker *models.WorkerProfile) error {
	return s.db.WithContext(ctx).Create(worker).Error
}

func (s *WorkerStore) Update(ctx context.Context, worker *models.WorkerProfile) error {
	return s.db.WithContext(ctx).Save(worker).Error
}
