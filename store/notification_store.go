package store

import (
	"context"

	"gorm.io/gorm"

	"worker-marketplace-server/models"
)

// NotificationStore persists assembled notification payloads.
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Save(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// ListByEmail returns a customer's notifications, newest first.
func (s *NotificationStore) ListByEmail(ctx context.Context, email string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}
