package services

import (
	"context"

	"ejaraat_backend/internal/broadcast"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/models"
	"ejaraat_backend/internal/render"
	"ejaraat_backend/internal/repositories"
	"ejaraat_backend/internal/services/dto"
	"ejaraat_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	GetUnread(ctx context.Context, db *gorm.DB, userID string) (*dto.NotificationListResponse, error)
	// Clear помечает все уведомления прочитанными и возвращает пустой виджет
	Clear(ctx context.Context, db *gorm.DB, userID string) (*dto.ClearNotificationsResponse, error)
	// PublishCleared рассылает clear_notifications во все вкладки пользователя
	PublishCleared(ctx context.Context, userID, html string)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	broker           broadcast.Broker
	renderer         *render.Renderer
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	broker broadcast.Broker,
	renderer *render.Renderer,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		broker:           broker,
		renderer:         renderer,
	}
}

func (s *NotificationServiceImpl) GetUnread(ctx context.Context, db *gorm.DB, userID string) (*dto.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.FindUnread(db, userID, NotificationListLimit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	html, err := s.renderer.Render(render.Notifications, notifications)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		Unread:        unread,
		HTML:          html,
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.NewNotificationResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *NotificationServiceImpl) Clear(ctx context.Context, db *gorm.DB, userID string) (*dto.ClearNotificationsResponse, error) {
	cleared, err := s.notificationRepo.MarkAllAsRead(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	logger.CtxInfo(ctx, "Notifications cleared", "count", cleared)

	html, err := s.renderer.Render(render.Notifications, []models.Notification{})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ClearNotificationsResponse{Cleared: cleared, HTML: html}, nil
}

func (s *NotificationServiceImpl) PublishCleared(ctx context.Context, userID, html string) {
	if s.broker == nil {
		return
	}
	env := broadcast.Envelope{Type: broadcast.TypeClearNotifications, HTML: html}
	if err := broadcast.PublishEnvelope(ctx, s.broker, broadcast.UserTopic(userID), env); err != nil {
		logger.CtxWarn(ctx, "Publish clear_notifications failed", "user_id", userID, "error", err)
	}
}
