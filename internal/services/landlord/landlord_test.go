package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/push"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) ListTenants(ctx context.Context, landlordUID string) ([]*models.TenantInfo, error) {
	args := m.Called(ctx, landlordUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TenantInfo), args.Error(1)
}

func (m *MockRepository) DisconnectTenant(ctx context.Context, tenantUID string) error {
	args := m.Called(ctx, tenantUID)
	return args.Error(0)
}

func (m *MockRepository) SetPendingRent(ctx context.Context, tenantUID string, rent models.PendingRent) error {
	args := m.Called(ctx, tenantUID, rent)
	return args.Error(0)
}

func (m *MockRepository) UpsertBankDetails(ctx context.Context, details models.BankDetails) (*models.BankDetails, error) {
	args := m.Called(ctx, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankDetails), args.Error(1)
}

func (m *MockRepository) GetBankDetails(ctx context.Context, landlordUID string) (*models.BankDetails, error) {
	args := m.Called(ctx, landlordUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankDetails), args.Error(1)
}

func (m *MockRepository) ListComplaints(ctx context.Context, landlordUID string) ([]*models.ComplaintInfo, error) {
	args := m.Called(ctx, landlordUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ComplaintInfo), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userUID, message string) (*models.Notification, error) {
	args := m.Called(ctx, userUID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotifier) NotifyWithPush(ctx context.Context, userUID, message string, payload push.Payload) (*models.Notification, error) {
	args := m.Called(ctx, userUID, message, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func ownTenantOf(landlordUID string) *models.User {
	return &models.User{UID: "uid-t", Role: models.RoleTenant, LandlordUID: &landlordUID}
}

func TestSetRent(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	notifier := new(MockNotifier)
	svc := NewLandlordService(repo, cache, notifier, newNoopLogger())

	repo.On("GetUser", mock.Anything, "uid-t").Return(ownTenantOf("uid-l"), nil)
	repo.On("SetPendingRent", mock.Anything, "uid-t", mock.MatchedBy(func(r models.PendingRent) bool {
		return r.Amount == 10000 && r.ServiceFee == 300 && r.Total == 10300 && r.SetBy == "uid-l"
	})).Return(nil)
	cache.On("Invalidate", "profile:uid-t").Return(nil)
	notifier.On("Notify", mock.Anything, "uid-t", mock.Anything).Return(&models.Notification{ID: 1}, nil)

	rent, err := svc.SetRent(context.Background(), "uid-l", "uid-t", 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(300), rent.ServiceFee)
	assert.Equal(t, int64(10300), rent.Total)
	repo.AssertExpectations(t)
}

func TestSetRent_ForeignTenant(t *testing.T) {
	repo := new(MockRepository)
	svc := NewLandlordService(repo, new(MockCache), new(MockNotifier), newNoopLogger())

	repo.On("GetUser", mock.Anything, "uid-t").Return(ownTenantOf("uid-other"), nil)

	_, err := svc.SetRent(context.Background(), "uid-l", "uid-t", 10000)
	assert.ErrorIs(t, err, ErrNotOwnTenant)
	repo.AssertNotCalled(t, "SetPendingRent", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetRent_UnknownTenant(t *testing.T) {
	repo := new(MockRepository)
	svc := NewLandlordService(repo, new(MockCache), new(MockNotifier), newNoopLogger())

	repo.On("GetUser", mock.Anything, "uid-missing").Return(nil, repository.ErrNotFound)

	_, err := svc.SetRent(context.Background(), "uid-l", "uid-missing", 10000)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRemoveTenant(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewLandlordService(repo, cache, new(MockNotifier), newNoopLogger())

	repo.On("GetUser", mock.Anything, "uid-t").Return(ownTenantOf("uid-l"), nil)
	repo.On("DisconnectTenant", mock.Anything, "uid-t").Return(nil)
	cache.On("Invalidate", "profile:uid-t").Return(nil)

	require.NoError(t, svc.RemoveTenant(context.Background(), "uid-l", "uid-t"))
	repo.AssertExpectations(t)
}

func TestRemindRent(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	svc := NewLandlordService(repo, new(MockCache), notifier, newNoopLogger())

	landlordUID := "uid-l"
	tenant := &models.User{
		UID:         "uid-t",
		Role:        models.RoleTenant,
		LandlordUID: &landlordUID,
		PendingRent: &models.PendingRent{Amount: 10000, ServiceFee: 300, Total: 10300},
	}
	repo.On("GetUser", mock.Anything, "uid-t").Return(tenant, nil)
	notifier.On("NotifyWithPush", mock.Anything, "uid-t", mock.Anything, mock.MatchedBy(func(p push.Payload) bool {
		return p.Title == "Rent reminder"
	})).Return(&models.Notification{ID: 3}, nil)

	require.NoError(t, svc.RemindRent(context.Background(), "uid-l", "uid-t"))
	notifier.AssertExpectations(t)
}

func TestRemindRent_NoPendingRent(t *testing.T) {
	repo := new(MockRepository)
	svc := NewLandlordService(repo, new(MockCache), new(MockNotifier), newNoopLogger())

	repo.On("GetUser", mock.Anything, "uid-t").Return(ownTenantOf("uid-l"), nil)

	err := svc.RemindRent(context.Background(), "uid-l", "uid-t")
	assert.ErrorIs(t, err, ErrNoPendingRent)
}

func TestTriggerAlarm(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	svc := NewLandlordService(repo, new(MockCache), notifier, newNoopLogger())

	repo.On("GetUser", mock.Anything, "uid-t").Return(ownTenantOf("uid-l"), nil)
	notifier.On("NotifyWithPush", mock.Anything, "uid-t", mock.Anything, mock.MatchedBy(func(p push.Payload) bool {
		return p.Title == "Landlord alarm"
	})).Return(&models.Notification{ID: 4}, nil)

	require.NoError(t, svc.TriggerAlarm(context.Background(), "uid-l", "uid-t"))
	notifier.AssertExpectations(t)
}
