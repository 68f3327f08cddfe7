// Package smtp реализует SMTP транспорт для отправки писем:
// кодов сброса пароля и напоминаний об аренде.
package smtp

import "io"

// Client описывает минимальный контракт SMTP клиента,
// достаточный для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transporter устанавливает соединение с SMTP сервером.
type Transporter interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
