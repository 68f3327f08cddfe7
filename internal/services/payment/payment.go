// Package services содержит логику бизнес-уровня подтверждения платежей
// за аренду через платёжный шлюз.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
	authsvc "github.com/renteaseone/rentease-backend/internal/services/auth"
)

// Gateway проверяет платёж по его reference во внешнем платёжном шлюзе.
type Gateway interface {
	VerifyTransaction(ctx context.Context, reference string) (*models.GatewayPayment, error)
}

// PaymentRepository описывает контракт для расчёта платежа в базе данных.
type PaymentRepository interface {
	// SettlePayment атомарно создает квитанцию и очищает назначенную
	// аренду. Повторный reference возвращает существующую квитанцию
	// и created=false.
	SettlePayment(ctx context.Context, userUID string, payment models.GatewayPayment) (*models.Receipt, bool, error)
	ListGatewayReceipts(ctx context.Context, userUID string) ([]*models.Receipt, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache — кеш read-side агрегатов.
type Cache interface {
	Invalidate(key string) error
}

// Notifier доставляет внутренние уведомления.
type Notifier interface {
	Notify(ctx context.Context, userUID, message string) (*models.Notification, error)
}

// PaymentService подтверждает платежи и ведёт историю квитанций плательщика.
type PaymentService struct {
	gateway  Gateway
	repo     PaymentRepository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(gateway Gateway, repo PaymentRepository, cache Cache, notifier Notifier, log *slog.Logger) *PaymentService {
	return &PaymentService{
		gateway:  gateway,
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// Verify подтверждает платёж по reference: проверяет его в шлюзе,
// затем атомарно рассчитывает. Повторный вызов с тем же reference
// возвращает ту же квитанцию без побочных эффектов.
func (s *PaymentService) Verify(ctx context.Context, userUID, reference string) (*models.Receipt, error) {
	payment, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	receipt, created, err := s.repo.SettlePayment(ctx, userUID, *payment)
	if err != nil {
		return nil, err
	}
	if !created {
		return receipt, nil
	}

	if err := s.cache.Invalidate(authsvc.ProfileCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.Err(err))
	}

	// Уведомление арендодателя не влияет на судьбу платежа.
	tenant, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		s.log.Error("failed to load tenant after settlement", sl.Err(err))
		return receipt, nil
	}
	if tenant.LandlordUID != nil {
		message := fmt.Sprintf("%s %s paid rent: %d total", tenant.FirstName, tenant.LastName, receipt.TotalPaid)
		if _, err := s.notifier.Notify(ctx, *tenant.LandlordUID, message); err != nil {
			s.log.Error("failed to notify landlord about payment", sl.Err(err))
		}
	}
	return receipt, nil
}

// ListMine возвращает шлюзовые квитанции плательщика, новые первыми.
func (s *PaymentService) ListMine(ctx context.Context, userUID string) ([]*models.Receipt, error) {
	return s.repo.ListGatewayReceipts(ctx, userUID)
}
