package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// NotificationView is a notification with its payload decoded for the API.
type NotificationView struct {
	model.Notification
	Data model.NotificationPayload `json:"data,omitempty"`
}

// NotificationService exposes a user's notification inbox.
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, page repository.Page) ([]NotificationView, *repository.PageInfo, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	repos repository.Repos
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repos repository.Repos) NotificationService {
	return &notificationService{repos: repos}
}

// List returns the user's notifications, newest first. Rows whose payload
// fails to decode are returned without data rather than dropped.
func (s *notificationService) List(ctx context.Context, userID uuid.UUID, page repository.Page) ([]NotificationView, *repository.PageInfo, error) {
	notifications, total, err := s.repos.Notifications.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list notifications: %w", err)
	}

	views := make([]NotificationView, 0, len(notifications))
	for i := range notifications {
		view := NotificationView{Notification: notifications[i]}
		if payload, err := model.DecodePayload(notifications[i].Payload); err == nil {
			view.Data = payload
		}
		views = append(views, view)
	}
	return views, repository.NewPageInfo(total, page), nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repos.Notifications.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification read. Ownership is enforced.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := s.repos.Notifications.FindByID(ctx, notificationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotificationNotFound
		}
		return fmt.Errorf("find notification: %w", err)
	}
	if notification.UserID != userID {
		return apperrors.ErrNotificationNotFound
	}
	return s.repos.Notifications.MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repos.Notifications.MarkAllRead(ctx, userID)
}
