// Package services содержит планировщик напоминаний об аренде:
// периодический обход арендаторов с назначенной арендой и публикация
// напоминаний в очередь.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/renteaseone/rentease-backend/internal/lib/rabbitmq"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
)

// TenantRepository описывает контракт планировщика к базе данных.
type TenantRepository interface {
	// FindTenantsDueReminder возвращает арендаторов с назначенной арендой,
	// которым не напоминали больше суток.
	FindTenantsDueReminder(ctx context.Context) ([]*models.User, error)
	StampReminder(ctx context.Context, tenantUID string) error
}

// SchedulerService периодически публикует напоминания об аренде.
type SchedulerService struct {
	repo TenantRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo TenantRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// Run запускает обход сразу и затем каждые сутки, до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context, channel *amqp.Channel) {
	s.RunScan(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunScan(ctx, channel)
		}
	}
}

// RunScan выполняет один обход: публикует напоминание каждому должнику
// и помечает время напоминания. Ошибка по одному арендатору не
// прерывает обход.
func (s *SchedulerService) RunScan(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting rent reminder scan")
	tenants, err := s.repo.FindTenantsDueReminder(ctx)
	if err != nil {
		s.log.Error("failed to find tenants due reminder", sl.Err(err))
		return
	}
	if len(tenants) == 0 {
		s.log.Info("no tenants due reminder")
		return
	}
	s.log.Info("found tenants due reminder", "count", len(tenants))

	for _, tenant := range tenants {
		if tenant.PendingRent == nil {
			continue
		}
		reminder := models.RentReminder{
			UserUID:   tenant.UID,
			Email:     tenant.Email,
			FirstName: tenant.FirstName,
			Amount:    tenant.PendingRent.Amount,
			Total:     tenant.PendingRent.Total,
		}
		if err := rabbitmq.PublishMessage(channel, rabbitmq.Exchange, rabbitmq.RoutingKeyRentReminder, reminder); err != nil {
			s.log.Error("failed to publish reminder", "user_uid", tenant.UID, sl.Err(err))
			continue
		}
		if err := s.repo.StampReminder(ctx, tenant.UID); err != nil {
			s.log.Error("failed to stamp reminder", "user_uid", tenant.UID, sl.Err(err))
		}
	}
}
