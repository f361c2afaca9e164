package services

import (
	"context"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
)

// Compile-time check to ensure NotificationServiceImpl implements NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

const maxNotificationLimit = 200

// NotificationServiceImpl reads the notification feed written by notifier.Recorder
type NotificationServiceImpl struct {
	eventRepo        repositories.EventRepository
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(eventRepo repositories.EventRepository, notificationRepo repositories.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
	}
}

// ListNotifications returns the newest notifications of an event first
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, eventID string, limit int) ([]*models.DrawNotification, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, storeErr(err, "load event")
	}
	if limit <= 0 || limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	list, err := s.notificationRepo.FindByEventID(ctx, eventID, limit)
	if err != nil {
		return nil, storeErr(err, "list notifications")
	}
	return list, nil
}
