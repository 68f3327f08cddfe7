package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/renteaseone/rentease-backend/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindTenantsDueReminder(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockRepository) StampReminder(ctx context.Context, tenantUID string) error {
	args := m.Called(ctx, tenantUID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRunScan_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindTenantsDueReminder", mock.Anything).Return(nil, errors.New("db down"))
	svc := NewSchedulerService(repo, newNoopLogger())

	svc.RunScan(context.Background(), nil)

	repo.AssertNotCalled(t, "StampReminder", mock.Anything, mock.Anything)
}

func TestRunScan_NoTenantsDue(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindTenantsDueReminder", mock.Anything).Return([]*models.User{}, nil)
	svc := NewSchedulerService(repo, newNoopLogger())

	svc.RunScan(context.Background(), nil)

	repo.AssertNotCalled(t, "StampReminder", mock.Anything, mock.Anything)
}
