package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/paygate"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) VerifyTransaction(ctx context.Context, reference string) (*models.GatewayPayment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GatewayPayment), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SettlePayment(ctx context.Context, userUID string, payment models.GatewayPayment) (*models.Receipt, bool, error) {
	args := m.Called(ctx, userUID, payment)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Receipt), args.Bool(1), args.Error(2)
}

func (m *MockRepository) ListGatewayReceipts(ctx context.Context, userUID string) ([]*models.Receipt, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Receipt), args.Error(1)
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
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

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestVerify_SettlesAndNotifiesLandlord(t *testing.T) {
	gateway := new(MockGateway)
	repo := new(MockRepository)
	cache := new(MockCache)
	notifier := new(MockNotifier)
	svc := NewPaymentService(gateway, repo, cache, notifier, newNoopLogger())

	payment := &models.GatewayPayment{Reference: "ref123", TotalPaid: 10300, Channel: "card", PaidAt: time.Now()}
	gateway.On("VerifyTransaction", mock.Anything, "ref123").Return(payment, nil)

	ref := "ref123"
	receipt := &models.Receipt{ID: 1, UserUID: "uid-t", Kind: models.ReceiptKindGateway, RentAmount: 10000, ServiceFee: 300, TotalPaid: 10300, Reference: &ref}
	repo.On("SettlePayment", mock.Anything, "uid-t", *payment).Return(receipt, true, nil)
	cache.On("Invalidate", "profile:uid-t").Return(nil)

	landlordUID := "uid-l"
	repo.On("GetUser", mock.Anything, "uid-t").Return(&models.User{UID: "uid-t", FirstName: "Ada", LastName: "Obi", LandlordUID: &landlordUID}, nil)
	notifier.On("Notify", mock.Anything, "uid-l", mock.Anything).Return(&models.Notification{ID: 9}, nil)

	got, err := svc.Verify(context.Background(), "uid-t", "ref123")
	require.NoError(t, err)
	assert.Equal(t, receipt, got)
	notifier.AssertExpectations(t)
}

func TestVerify_DuplicateReferenceSkipsSideEffects(t *testing.T) {
	gateway := new(MockGateway)
	repo := new(MockRepository)
	cache := new(MockCache)
	notifier := new(MockNotifier)
	svc := NewPaymentService(gateway, repo, cache, notifier, newNoopLogger())

	payment := &models.GatewayPayment{Reference: "ref123", TotalPaid: 10300}
	gateway.On("VerifyTransaction", mock.Anything, "ref123").Return(payment, nil)

	ref := "ref123"
	existing := &models.Receipt{ID: 1, UserUID: "uid-t", Reference: &ref, TotalPaid: 10300}
	repo.On("SettlePayment", mock.Anything, "uid-t", *payment).Return(existing, false, nil)

	got, err := svc.Verify(context.Background(), "uid-t", "ref123")
	require.NoError(t, err)
	assert.Equal(t, existing, got)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_GatewayFailure(t *testing.T) {
	gateway := new(MockGateway)
	repo := new(MockRepository)
	svc := NewPaymentService(gateway, repo, new(MockCache), new(MockNotifier), newNoopLogger())

	gateway.On("VerifyTransaction", mock.Anything, "bad-ref").Return(nil, paygate.ErrVerificationFailed)

	_, err := svc.Verify(context.Background(), "uid-t", "bad-ref")
	assert.ErrorIs(t, err, paygate.ErrVerificationFailed)
	repo.AssertNotCalled(t, "SettlePayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_NotificationFailureDoesNotFailSettlement(t *testing.T) {
	gateway := new(MockGateway)
	repo := new(MockRepository)
	cache := new(MockCache)
	notifier := new(MockNotifier)
	svc := NewPaymentService(gateway, repo, cache, notifier, newNoopLogger())

	payment := &models.GatewayPayment{Reference: "ref777", TotalPaid: 5150}
	gateway.On("VerifyTransaction", mock.Anything, "ref777").Return(payment, nil)
	ref := "ref777"
	receipt := &models.Receipt{ID: 2, UserUID: "uid-t", Reference: &ref, TotalPaid: 5150}
	repo.On("SettlePayment", mock.Anything, "uid-t", *payment).Return(receipt, true, nil)
	cache.On("Invalidate", "profile:uid-t").Return(nil)

	landlordUID := "uid-l"
	repo.On("GetUser", mock.Anything, "uid-t").Return(&models.User{UID: "uid-t", LandlordUID: &landlordUID}, nil)
	notifier.On("Notify", mock.Anything, "uid-l", mock.Anything).Return(nil, assert.AnError)

	got, err := svc.Verify(context.Background(), "uid-t", "ref777")
	require.NoError(t, err)
	assert.Equal(t, receipt, got)
}
