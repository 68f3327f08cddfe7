// Package push отправляет браузерные web-push уведомления по протоколу
// VAPID.
package push

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/renteaseone/rentease-backend/internal/config"
	"github.com/renteaseone/rentease-backend/internal/models"
)

// ErrSubscriptionGone возвращается, когда endpoint подписки больше
// не обслуживается push-сервисом и подписку следует удалить.
var ErrSubscriptionGone = errors.New("push subscription is gone")

// Payload — содержимое push-уведомления, сериализуется в JSON.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// Sender отправляет уведомления с VAPID ключами из конфига.
type Sender struct {
	cfg config.WebPush
}

// NewSender создает новый экземпляр Sender.
func NewSender(cfg config.WebPush) *Sender {
	return &Sender{cfg: cfg}
}

// Send отправляет уведомление на одну подписку.
func (s *Sender) Send(sub models.PushSubscription, payload Payload) error {
	const op = "push.Send"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := webpush.SendNotification(body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.VAPIDSubject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             3600,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%s: %w", op, ErrSubscriptionGone)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	return nil
}

// PublicKey возвращает публичный VAPID ключ для подписки на клиенте.
func (s *Sender) PublicKey() string {
	return s.cfg.VAPIDPublicKey
}
