package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

// NotificationService exposes a user's mention notifications.
type NotificationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store *store.Store, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		logger: logger,
	}
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.store.ListNotificationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.store.UnreadNotificationCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read. Idempotent:
// unknown IDs and notifications belonging to other users are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	changed, err := s.store.MarkNotificationRead(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if changed {
		s.logger.Debug("notification read", "user_id", userID, "notification_id", notificationID)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	changed, err := s.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	if changed > 0 {
		s.logger.Debug("notifications read", "user_id", userID, "count", changed)
	}
	return changed, nil
}
