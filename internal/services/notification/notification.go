// Package services содержит логику бизнес-уровня для внутренних
// уведомлений и web-push подписок.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/presence"
	"github.com/renteaseone/rentease-backend/internal/push"
)

// NotificationRepository описывает контракт для работы с уведомлениями
// и push-подписками в базе данных.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, userUID, message string) (*models.Notification, error)
	ListNotifications(ctx context.Context, userUID string) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userUID string, id int64) error
	SavePushSubscription(ctx context.Context, sub models.PushSubscription) error
	DeletePushSubscription(ctx context.Context, userUID, endpoint string) error
	ListPushSubscriptions(ctx context.Context, userUID string) ([]*models.PushSubscription, error)
}

// Pusher отправляет web-push уведомления браузеру.
type Pusher interface {
	Send(sub models.PushSubscription, payload push.Payload) error
	PublicKey() string
}

// NotificationService сохраняет уведомления и доставляет их адресату:
// онлайн-пользователям через открытые потоки событий, остальным —
// через web-push подписки.
type NotificationService struct {
	repo    NotificationRepository
	tracker presence.Tracker
	pusher  Pusher
	log     *slog.Logger
}

// NewNotificationService создает новый экземпляр NotificationService.
func NewNotificationService(repo NotificationRepository, tracker presence.Tracker, pusher Pusher, log *slog.Logger) *NotificationService {
	return &NotificationService{
		repo:    repo,
		tracker: tracker,
		pusher:  pusher,
		log:     log,
	}
}

// Notify сохраняет внутреннее уведомление и доставляет его в открытые
// потоки событий пользователя, если он онлайн.
func (s *NotificationService) Notify(ctx context.Context, userUID, message string) (*models.Notification, error) {
	notification, err := s.repo.CreateNotification(ctx, userUID, message)
	if err != nil {
		return nil, err
	}
	if s.tracker.IsOnline(userUID) {
		s.tracker.Deliver(userUID, notification)
	}
	return notification, nil
}

// NotifyWithPush сохраняет внутреннее уведомление и дополнительно
// отправляет web-push на все подписки пользователя. Протухшие подписки
// удаляются, ошибки отдельных подписок не прерывают рассылку.
func (s *NotificationService) NotifyWithPush(ctx context.Context, userUID, message string, payload push.Payload) (*models.Notification, error) {
	notification, err := s.Notify(ctx, userUID, message)
	if err != nil {
		return nil, err
	}

	subs, err := s.repo.ListPushSubscriptions(ctx, userUID)
	if err != nil {
		s.log.Error("failed to list push subscriptions", "user_uid", userUID, sl.Err(err))
		return notification, nil
	}
	for _, sub := range subs {
		err := s.pusher.Send(*sub, payload)
		if errors.Is(err, push.ErrSubscriptionGone) {
			if err := s.repo.DeletePushSubscription(ctx, userUID, sub.Endpoint); err != nil {
				s.log.Error("failed to prune stale push subscription", sl.Err(err))
			}
			continue
		}
		if err != nil {
			s.log.Error("failed to send web push", "user_uid", userUID, sl.Err(err))
		}
	}
	return notification, nil
}

// List возвращает уведомления пользователя, непрочитанные первыми.
func (s *NotificationService) List(ctx context.Context, userUID string) ([]*models.Notification, error) {
	return s.repo.ListNotifications(ctx, userUID)
}

// MarkRead помечает уведомление пользователя прочитанным.
func (s *NotificationService) MarkRead(ctx context.Context, userUID string, id int64) error {
	return s.repo.MarkNotificationRead(ctx, userUID, id)
}

// Subscribe сохраняет web-push подписку. Повторная подписка на тот же
// endpoint обновляет ключи.
func (s *NotificationService) Subscribe(ctx context.Context, sub models.PushSubscription) error {
	return s.repo.SavePushSubscription(ctx, sub)
}

// Unsubscribe удаляет web-push подписку по endpoint.
func (s *NotificationService) Unsubscribe(ctx context.Context, userUID, endpoint string) error {
	return s.repo.DeletePushSubscription(ctx, userUID, endpoint)
}

// VAPIDPublicKey возвращает публичный VAPID ключ для подписки браузера.
func (s *NotificationService) VAPIDPublicKey() string {
	return s.pusher.PublicKey()
}
