package storage

import (
	"context"

	"facilitydesk/backend/internal/models"

	"gorm.io/gorm"
)

// CreateNotifications inserts ns in one statement and fills in their ids.
func (s *Service) CreateNotifications(ctx context.Context, ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Create(&ns).Error
}

func (s *Service) ListNotifications(ctx context.Context, userID uint, page Page) ([]models.Notification, int64, error) {
	var (
		items []models.Notification
		total int64
	)
	q := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit()).
		Find(&items).Error
	return items, total, err
}

// MarkNotificationRead flags a notification owned by userID as read.
func (s *Service) MarkNotificationRead(ctx context.Context, id, userID uint) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
