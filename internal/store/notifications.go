package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
)

// notifKey builds the composite key for a notification. Keying by recipient
// first makes per-user listing a prefix scan, and makes read-marking
// naturally pair-matched: a notification ID under the wrong user resolves
// to a key that does not exist.
func notifKey(recipientUserID, notificationID string) []byte {
	return []byte(notifPrefix + recipientUserID + ":" + notificationID)
}

// CreateNotification persists a notification for its recipient.
func (s *Store) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.set(notifKey(notification.RecipientUserID, notification.ID), notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListNotificationsForUser returns a user's notifications newest first.
// A user with no notifications yields an empty slice.
func (s *Store) ListNotificationsForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.scanNotifications(ctx, notifPrefix+userID+":")
	if err != nil {
		return nil, err
	}

	sort.Slice(notifications, func(i, j int) bool {
		if !notifications[i].Timestamp.Equal(notifications[j].Timestamp) {
			return notifications[i].Timestamp.After(notifications[j].Timestamp)
		}
		return notifications[i].ID > notifications[j].ID
	})

	return notifications, nil
}

// UnreadNotificationCount returns the number of unread notifications for a user.
func (s *Store) UnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.scanNotifications(ctx, notifPrefix+userID+":")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkNotificationRead marks one of a user's notifications as read.
// Idempotent: marking an already-read, unknown, or foreign notification is a
// no-op. Returns true when the stored state actually changed.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, notificationID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := notifKey(userID, notificationID)
	changed := false

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get notification: %w", err)
		}

		var notification domain.Notification
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &notification)
		})
		if err != nil {
			return fmt.Errorf("unmarshal notification: %w", err)
		}

		if notification.Read {
			return nil
		}

		notification.Read = true
		data, err := json.Marshal(&notification)
		if err != nil {
			return fmt.Errorf("marshal notification: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return changed, nil
}

// MarkAllNotificationsRead marks every unread notification of a user as read.
// Returns the number of notifications that changed state.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	prefix := []byte(notifPrefix + userID + ":")
	changed := 0

	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var notification domain.Notification
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &notification)
			})
			if err != nil {
				return fmt.Errorf("unmarshal notification: %w", err)
			}

			if notification.Read {
				continue
			}

			notification.Read = true
			data, err := json.Marshal(&notification)
			if err != nil {
				return fmt.Errorf("marshal notification: %w", err)
			}

			if err := txn.Set(it.Item().KeyCopy(nil), data); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return changed, nil
}

// ListAllNotifications returns every notification in the store, ordered
// oldest first with ID as tiebreak. Used by the snapshot exporter.
func (s *Store) ListAllNotifications(ctx context.Context) ([]*domain.Notification, error) {
	notifications, err := s.scanNotifications(ctx, notifPrefix)
	if err != nil {
		return nil, err
	}

	sort.Slice(notifications, func(i, j int) bool {
		if !notifications[i].Timestamp.Equal(notifications[j].Timestamp) {
			return notifications[i].Timestamp.Before(notifications[j].Timestamp)
		}
		return notifications[i].ID < notifications[j].ID
	})

	return notifications, nil
}

// scanNotifications collects all notifications under a key prefix.
func (s *Store) scanNotifications(ctx context.Context, prefix string) ([]*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notifications := []*domain.Notification{}
	prefixBytes := []byte(prefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixBytes

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			var notification domain.Notification
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &notification)
			})
			if err != nil {
				return fmt.Errorf("unmarshal notification: %w", err)
			}
			notifications = append(notifications, &notification)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return notifications, nil
}
