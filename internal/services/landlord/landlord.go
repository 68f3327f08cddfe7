// Package services содержит логику бизнес-уровня со стороны арендодателя:
// список арендаторов, назначение аренды, реквизиты, жалобы и ручные
// напоминания.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/renteaseone/rentease-backend/internal/lib/fee"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/push"
	authsvc "github.com/renteaseone/rentease-backend/internal/services/auth"
)

// ErrNotOwnTenant возвращается, когда арендатор не привязан к этому
// арендодателю.
var ErrNotOwnTenant = errors.New("tenant is not connected to this landlord")

// ErrNoPendingRent возвращается, когда у арендатора нет назначенной аренды.
var ErrNoPendingRent = errors.New("tenant has no pending rent")

// LandlordRepository описывает контракт для операций арендодателя в базе данных.
type LandlordRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListTenants(ctx context.Context, landlordUID string) ([]*models.TenantInfo, error)
	DisconnectTenant(ctx context.Context, tenantUID string) error
	SetPendingRent(ctx context.Context, tenantUID string, rent models.PendingRent) error
	UpsertBankDetails(ctx context.Context, details models.BankDetails) (*models.BankDetails, error)
	GetBankDetails(ctx context.Context, landlordUID string) (*models.BankDetails, error)
	ListComplaints(ctx context.Context, landlordUID string) ([]*models.ComplaintInfo, error)
}

// Cache — кеш read-side агрегатов.
type Cache interface {
	Invalidate(key string) error
}

// Notifier доставляет внутренние и push-уведомления.
type Notifier interface {
	Notify(ctx context.Context, userUID, message string) (*models.Notification, error)
	NotifyWithPush(ctx context.Context, userUID, message string, payload push.Payload) (*models.Notification, error)
}

// LandlordService отвечает за действия арендодателя над своими арендаторами.
type LandlordService struct {
	repo     LandlordRepository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// NewLandlordService создает новый экземпляр LandlordService.
func NewLandlordService(repo LandlordRepository, cache Cache, notifier Notifier, log *slog.Logger) *LandlordService {
	return &LandlordService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// ownTenant возвращает арендатора, если он привязан к арендодателю.
func (s *LandlordService) ownTenant(ctx context.Context, landlordUID, tenantUID string) (*models.User, error) {
	tenant, err := s.repo.GetUser(ctx, tenantUID)
	if err != nil {
		return nil, err
	}
	if tenant.LandlordUID == nil || *tenant.LandlordUID != landlordUID {
		return nil, ErrNotOwnTenant
	}
	return tenant, nil
}

// ListTenants возвращает арендаторов арендодателя.
func (s *LandlordService) ListTenants(ctx context.Context, landlordUID string) ([]*models.TenantInfo, error) {
	return s.repo.ListTenants(ctx, landlordUID)
}

// RemoveTenant отвязывает арендатора от арендодателя.
func (s *LandlordService) RemoveTenant(ctx context.Context, landlordUID, tenantUID string) error {
	if _, err := s.ownTenant(ctx, landlordUID, tenantUID); err != nil {
		return err
	}
	if err := s.repo.DisconnectTenant(ctx, tenantUID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(authsvc.ProfileCacheKey(tenantUID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.Err(err))
	}
	return nil
}

// SetRent назначает арендатору сумму аренды. Сервисный сбор считается
// от суммы, итог к оплате — сумма плюс сбор. Арендатор получает
// внутреннее уведомление.
func (s *LandlordService) SetRent(ctx context.Context, landlordUID, tenantUID string, amount int64) (*models.PendingRent, error) {
	if _, err := s.ownTenant(ctx, landlordUID, tenantUID); err != nil {
		return nil, err
	}

	rent := models.PendingRent{
		Amount:     amount,
		ServiceFee: fee.Service(amount),
		Total:      fee.Total(amount),
		SetBy:      landlordUID,
	}
	if err := s.repo.SetPendingRent(ctx, tenantUID, rent); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(authsvc.ProfileCacheKey(tenantUID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.Err(err))
	}

	message := fmt.Sprintf("Your landlord set your rent: %d plus %d service fee, %d total", rent.Amount, rent.ServiceFee, rent.Total)
	if _, err := s.notifier.Notify(ctx, tenantUID, message); err != nil {
		s.log.Error("failed to notify tenant about rent", sl.Err(err))
	}
	return &rent, nil
}

// SaveBankDetails создает или обновляет платёжные реквизиты арендодателя.
func (s *LandlordService) SaveBankDetails(ctx context.Context, details models.BankDetails) (*models.BankDetails, error) {
	saved, err := s.repo.UpsertBankDetails(ctx, details)
	if err != nil {
		return nil, err
	}
	// Реквизиты входят в кешированные профили арендаторов, но ключей
	// по арендодателю у кеша нет; пятиминутный TTL закрывает разрыв.
	return saved, nil
}

// BankDetails возвращает реквизиты арендодателя.
func (s *LandlordService) BankDetails(ctx context.Context, landlordUID string) (*models.BankDetails, error) {
	return s.repo.GetBankDetails(ctx, landlordUID)
}

// ListComplaints возвращает жалобы на арендодателя, новые первыми.
func (s *LandlordService) ListComplaints(ctx context.Context, landlordUID string) ([]*models.ComplaintInfo, error) {
	return s.repo.ListComplaints(ctx, landlordUID)
}

// RemindRent немедленно напоминает арендатору о назначенной аренде:
// внутреннее уведомление плюс web-push.
func (s *LandlordService) RemindRent(ctx context.Context, landlordUID, tenantUID string) error {
	tenant, err := s.ownTenant(ctx, landlordUID, tenantUID)
	if err != nil {
		return err
	}
	if tenant.PendingRent == nil {
		return ErrNoPendingRent
	}

	message := fmt.Sprintf("Rent reminder: %d is due, %d total with the service fee", tenant.PendingRent.Amount, tenant.PendingRent.Total)
	payload := push.Payload{
		Title: "Rent reminder",
		Body:  message,
		URL:   "/payments",
	}
	_, err = s.notifier.NotifyWithPush(ctx, tenantUID, message, payload)
	return err
}

// TriggerAlarm немедленно отправляет арендатору настойчивое
// push-уведомление от арендодателя.
func (s *LandlordService) TriggerAlarm(ctx context.Context, landlordUID, tenantUID string) error {
	if _, err := s.ownTenant(ctx, landlordUID, tenantUID); err != nil {
		return err
	}

	message := "Your landlord requests your immediate attention"
	payload := push.Payload{
		Title: "Landlord alarm",
		Body:  message,
		URL:   "/notifications",
	}
	_, err := s.notifier.NotifyWithPush(ctx, tenantUID, message, payload)
	return err
}
