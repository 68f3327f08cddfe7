// Package notifier собирает приложение рассылки напоминаний: потребляет
// сообщения из RabbitMQ и отправляет письма и web-push.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/renteaseone/rentease-backend/internal/config"
	"github.com/renteaseone/rentease-backend/internal/lib/rabbitmq"
	"github.com/renteaseone/rentease-backend/internal/lib/smtp"
	"github.com/renteaseone/rentease-backend/internal/push"
	senderservice "github.com/renteaseone/rentease-backend/internal/services/sender"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// App представляет приложение рассылки.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает новый экземпляр приложения рассылки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	mailer := smtp.NewMailer(smtp.NewTransport(cfg, logger))
	pusher := push.NewSender(cfg.WebPush)
	senderService := senderservice.NewSenderService(db, mailer, pusher, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди напоминаний.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.QueueRentReminder, func(body []byte) error {
		return a.senderService.SendRentReminder(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start rent reminder consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
