package smtp

import (
	"fmt"
	"strings"
)

// Mailer отправляет письма через Transporter, открывая соединение
// на каждое письмо.
type Mailer struct {
	transport Transporter
}

// NewMailer создает новый экземпляр Mailer.
func NewMailer(transport Transporter) *Mailer {
	return &Mailer{transport: transport}
}

// Send отправляет одно текстовое письмо указанным получателям.
func (m *Mailer) Send(to []string, subject, bodyText string) error {
	const op = "smtp.Send"

	msg := strings.Join([]string{
		"From: " + m.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := m.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	if err := client.Mail(m.transport.GetSMTPUser()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
