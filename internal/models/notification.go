package models

import "time"

// Notification — адресованное пользователю сообщение с признаком прочтения.
type Notification struct {
	ID        int64     `json:"id"`
	UserUID   string    `json:"user_uid"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// PushSubscription — браузерная web-push подписка пользователя.
// Endpoint уникален в пределах пользователя.
type PushSubscription struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"user_uid"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// RentReminder — сообщение очереди напоминаний об аренде,
// публикуется планировщиком и потребляется отправителем уведомлений.
type RentReminder struct {
	UserUID   string `json:"user_uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Amount    int64  `json:"amount"`
	Total     int64  `json:"total"`
}
