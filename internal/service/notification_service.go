package service

import (
	"context"
	"fmt"
	"time"

	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/repository"
)

const notificationFeedLimit = 50

type notificationService struct {
	notifications repository.NotificationRepository
	pusher        Pusher
}

func NewNotificationService(notifications repository.NotificationRepository, pusher Pusher) NotificationService {
	return &notificationService{
		notifications: notifications,
		pusher:        pusher,
	}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.notifications.ListForUser(ctx, userID, notificationFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.notifications.MarkRead(ctx, id, userID, time.Now().UTC())
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID, time.Now().UTC())
}

// Notify persists a notification and pushes it to the target's session when
// one is registered. Collaborators (fee reminders, notices, results) raise
// user-facing notices through this.
func (s *notificationService) Notify(ctx context.Context, userID, title, message, notifType string) error {
	n := &domain.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.pusher.PushToUser(userID, &domain.NewNotificationEvent{
		Type:    domain.EventNewNotification,
		Title:   n.Title,
		Message: n.Message,
	})
	return nil
}
