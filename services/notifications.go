package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialbook/db"
	"socialbook/logger"
	"socialbook/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotificationService struct {
	db  *db.Manager
	bus EventBus
}

func NewNotificationService(manager *db.Manager, bus EventBus) *NotificationService {
	return &NotificationService{db: manager, bus: bus}
}

// Notify сохраняет уведомление и публикует событие. Ошибки только логируются:
// уведомление не должно ломать основное действие пользователя.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) *models.Notification {
	if n.ToUser == "" || n.ToUser == n.Actor {
		return nil
	}
	n.Timestamp = time.Now().UTC()
	if err := s.db.Write(ctx).Create(&n).Error; err != nil {
		logger.Warn("failed to create notification",
			zap.String("to_user", n.ToUser), zap.String("type", string(n.NotifType)), zap.Error(err))
		return nil
	}
	if s.bus != nil {
		event := models.NotificationEvent{Event: models.EventNotificationCreated, Notification: n}
		if err := s.bus.Publish(ctx, event); err != nil {
			logger.Warn("failed to publish notification event", zap.Int64("id", n.ID), zap.Error(err))
		}
	}
	return &n
}

// List returns the viewer's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, v Viewer) ([]models.Notification, error) {
	list := make([]models.Notification, 0)
	err := s.db.Read(ctx).Where("to_user = ?", v.Username).
		Order("timestamp DESC").Order("id DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) Get(ctx context.Context, v Viewer, id int64) (*models.Notification, error) {
	var n models.Notification
	err := s.db.Read(ctx).Where("to_user = ?", v.Username).First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, v Viewer, id int64) error {
	var n models.Notification
	err := s.db.Read(ctx).First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if n.ToUser != v.Username {
		return ErrPermissionDenied
	}
	return s.db.Write(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllRead(ctx context.Context, v Viewer) (int64, error) {
	res := s.db.Write(ctx).Model(&models.Notification{}).
		Where("to_user = ? AND read = ?", v.Username, false).Update("read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
