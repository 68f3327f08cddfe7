// Package services содержит отправителя напоминаний об аренде:
// потребляет сообщения очереди и доставляет их по email и web-push.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/push"
)

// PushSubscriptionRepository описывает контракт для работы с push-подписками.
type PushSubscriptionRepository interface {
	ListPushSubscriptions(ctx context.Context, userUID string) ([]*models.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, userUID, endpoint string) error
}

// Mailer отправляет письма пользователям.
type Mailer interface {
	Send(to []string, subject, bodyText string) error
}

// Pusher отправляет web-push уведомления браузеру.
type Pusher interface {
	Send(sub models.PushSubscription, payload push.Payload) error
}

// SenderService доставляет напоминания об аренде из очереди.
type SenderService struct {
	repo   PushSubscriptionRepository
	mailer Mailer
	pusher Pusher
	log    *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(repo PushSubscriptionRepository, mailer Mailer, pusher Pusher, log *slog.Logger) *SenderService {
	return &SenderService{
		repo:   repo,
		mailer: mailer,
		pusher: pusher,
		log:    log,
	}
}

// SendRentReminder доставляет одно напоминание: письмо на email
// арендатора и web-push на каждую его подписку. Протухшие подписки
// удаляются; ошибки push не роняют обработку сообщения.
func (s *SenderService) SendRentReminder(ctx context.Context, body []byte) error {
	var reminder models.RentReminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal reminder", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Rent payment reminder"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour rent of %d is due. With the service fee the total to pay is %d.\n\nPlease pay through the app.",
		reminder.FirstName, reminder.Amount, reminder.Total)
	if err := s.mailer.Send([]string{reminder.Email}, subject, bodyText); err != nil {
		return err
	}

	payload := push.Payload{
		Title: "Rent payment reminder",
		Body:  fmt.Sprintf("Your rent of %d is due, %d total with the service fee", reminder.Amount, reminder.Total),
		URL:   "/payments",
	}
	subs, err := s.repo.ListPushSubscriptions(ctx, reminder.UserUID)
	if err != nil {
		s.log.Error("failed to list push subscriptions", "user_uid", reminder.UserUID, sl.Err(err))
		return nil
	}
	for _, sub := range subs {
		err := s.pusher.Send(*sub, payload)
		if errors.Is(err, push.ErrSubscriptionGone) {
			if err := s.repo.DeletePushSubscription(ctx, reminder.UserUID, sub.Endpoint); err != nil {
				s.log.Error("failed to prune stale push subscription", sl.Err(err))
			}
			continue
		}
		if err != nil {
			s.log.Error("failed to send web push", "user_uid", reminder.UserUID, sl.Err(err))
		}
	}
	return nil
}
