package repository

import (
	"context"
	"fmt"

	"github.com/renteaseone/rentease-backend/internal/models"
)

// CreateNotification сохраняет уведомление и возвращает созданную запись.
func (s *Storage) CreateNotification(ctx context.Context, userUID, message string) (*models.Notification, error) {
	const op = "storage.CreateNotification"

	n := &models.Notification{}
	query := `INSERT INTO notifications (user_uid, message)
			  VALUES ($1, $2)
			  RETURNING id, user_uid, message, read, created_at`
	if err := s.DB.QueryRowContext(ctx, query, userUID, message).Scan(
		&n.ID, &n.UserUID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ListNotifications возвращает уведомления пользователя: сначала
// непрочитанные, внутри группы новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, userUID string) ([]*models.Notification, error) {
	const op = "storage.ListNotifications"

	query := `SELECT id, user_uid, message, read, created_at
			  FROM notifications
			  WHERE user_uid = $1
			  ORDER BY read ASC, created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserUID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notifications, nil
}

// MarkNotificationRead помечает уведомление пользователя прочитанным.
func (s *Storage) MarkNotificationRead(ctx context.Context, userUID string, id int64) error {
	const op = "storage.MarkNotificationRead"

	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_uid = $2`
	res, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// SavePushSubscription сохраняет web-push подписку пользователя.
// Повторная подписка на тот же endpoint не создаёт дубликата.
func (s *Storage) SavePushSubscription(ctx context.Context, sub models.PushSubscription) error {
	const op = "storage.SavePushSubscription"

	query := `INSERT INTO push_subscriptions (user_uid, endpoint, p256dh, auth)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_uid, endpoint) DO UPDATE
			  SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth`
	if _, err := s.DB.ExecContext(ctx, query,
		sub.UserUID, sub.Endpoint, sub.P256dh, sub.Auth); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeletePushSubscription удаляет подписку пользователя по endpoint.
func (s *Storage) DeletePushSubscription(ctx context.Context, userUID, endpoint string) error {
	const op = "storage.DeletePushSubscription"

	query := `DELETE FROM push_subscriptions WHERE user_uid = $1 AND endpoint = $2`
	if _, err := s.DB.ExecContext(ctx, query, userUID, endpoint); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPushSubscriptions возвращает все подписки пользователя.
func (s *Storage) ListPushSubscriptions(ctx context.Context, userUID string) ([]*models.PushSubscription, error) {
	const op = "storage.ListPushSubscriptions"

	query := `SELECT id, user_uid, endpoint, p256dh, auth, created_at
			  FROM push_subscriptions
			  WHERE user_uid = $1`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var subs []*models.PushSubscription
	for rows.Next() {
		sub := &models.PushSubscription{}
		if err := rows.Scan(&sub.ID, &sub.UserUID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}
