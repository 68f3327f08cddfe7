// Package services содержит логику бизнес-уровня со стороны арендатора:
// привязку к арендодателю по коду и подачу жалоб.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
	authsvc "github.com/renteaseone/rentease-backend/internal/services/auth"
)

// ErrNotTenant возвращается, когда операция доступна только арендатору.
var ErrNotTenant = errors.New("caller is not a tenant")

// ErrNotConnected возвращается, когда у арендатора нет привязанного
// арендодателя.
var ErrNotConnected = errors.New("tenant is not connected to a landlord")

// TenantRepository описывает контракт для операций арендатора в базе данных.
type TenantRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetLandlordByCode(ctx context.Context, landlordCode string) (*models.User, error)
	ConnectTenant(ctx context.Context, tenantUID, landlordUID string) (*models.User, error)
	CreateComplaint(ctx context.Context, complaint models.Complaint) (int, error)
}

// Cache — кеш read-side агрегатов.
type Cache interface {
	Invalidate(key string) error
}

// Notifier доставляет внутренние уведомления.
type Notifier interface {
	Notify(ctx context.Context, userUID, message string) (*models.Notification, error)
}

// TenantService отвечает за действия арендатора: подключение к арендодателю
// и жалобы.
type TenantService struct {
	repo     TenantRepository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// NewTenantService создает новый экземпляр TenantService.
func NewTenantService(repo TenantRepository, cache Cache, notifier Notifier, log *slog.Logger) *TenantService {
	return &TenantService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// Connect привязывает арендатора к арендодателю по его коду. Повторное
// подключение перезаписывает предыдущую связь. Арендодатель получает
// уведомление о новом арендаторе.
func (s *TenantService) Connect(ctx context.Context, tenantUID, landlordCode string) (*models.User, error) {
	caller, err := s.repo.GetUser(ctx, tenantUID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleTenant {
		return nil, ErrNotTenant
	}

	landlord, err := s.repo.GetLandlordByCode(ctx, landlordCode)
	if err != nil {
		return nil, err
	}

	tenant, err := s.repo.ConnectTenant(ctx, tenantUID, landlord.UID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(authsvc.ProfileCacheKey(tenantUID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.Err(err))
	}

	message := tenant.FirstName + " " + tenant.LastName + " connected to you as a tenant"
	if _, err := s.notifier.Notify(ctx, landlord.UID, message); err != nil {
		s.log.Error("failed to notify landlord about new tenant", sl.Err(err))
	}
	return tenant, nil
}

// FileComplaint создает жалобу на текущего арендодателя арендатора
// и уведомляет его.
func (s *TenantService) FileComplaint(ctx context.Context, tenantUID, title, description string) (*models.Complaint, error) {
	caller, err := s.repo.GetUser(ctx, tenantUID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleTenant {
		return nil, ErrNotTenant
	}
	if caller.LandlordUID == nil {
		return nil, ErrNotConnected
	}

	complaint := models.Complaint{
		TenantUID:   tenantUID,
		LandlordUID: *caller.LandlordUID,
		Title:       title,
		Description: description,
	}
	id, err := s.repo.CreateComplaint(ctx, complaint)
	if err != nil {
		return nil, err
	}
	complaint.ID = id

	message := "New complaint from " + caller.FirstName + " " + caller.LastName + ": " + title
	if _, err := s.notifier.Notify(ctx, *caller.LandlordUID, message); err != nil {
		s.log.Error("failed to notify landlord about complaint", sl.Err(err))
	}
	return &complaint, nil
}
