package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/push"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListPushSubscriptions(ctx context.Context, userUID string) ([]*models.PushSubscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PushSubscription), args.Error(1)
}

func (m *MockRepository) DeletePushSubscription(ctx context.Context, userUID, endpoint string) error {
	args := m.Called(ctx, userUID, endpoint)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to []string, subject, bodyText string) error {
	args := m.Called(to, subject, bodyText)
	return args.Error(0)
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Send(sub models.PushSubscription, payload push.Payload) error {
	args := m.Called(sub, payload)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func reminderBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.RentReminder{
		UserUID:   "uid-t",
		Email:     "ada@example.com",
		FirstName: "Ada",
		Amount:    10000,
		Total:     10300,
	})
	require.NoError(t, err)
	return body
}

func TestSendRentReminder(t *testing.T) {
	repo := new(MockRepository)
	mailer := new(MockMailer)
	pusher := new(MockPusher)
	svc := NewSenderService(repo, mailer, pusher, newNoopLogger())

	mailer.On("Send", []string{"ada@example.com"}, mock.Anything, mock.Anything).Return(nil)
	sub := &models.PushSubscription{UserUID: "uid-t", Endpoint: "https://push/a"}
	repo.On("ListPushSubscriptions", mock.Anything, "uid-t").Return([]*models.PushSubscription{sub}, nil)
	pusher.On("Send", *sub, mock.Anything).Return(nil)

	require.NoError(t, svc.SendRentReminder(context.Background(), reminderBody(t)))
	mailer.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestSendRentReminder_BadBody(t *testing.T) {
	svc := NewSenderService(new(MockRepository), new(MockMailer), new(MockPusher), newNoopLogger())

	err := svc.SendRentReminder(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}

func TestSendRentReminder_MailFailureRetriesMessage(t *testing.T) {
	repo := new(MockRepository)
	mailer := new(MockMailer)
	svc := NewSenderService(repo, mailer, new(MockPusher), newNoopLogger())

	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := svc.SendRentReminder(context.Background(), reminderBody(t))
	assert.Error(t, err)
	repo.AssertNotCalled(t, "ListPushSubscriptions", mock.Anything, mock.Anything)
}

func TestSendRentReminder_PrunesGoneSubscription(t *testing.T) {
	repo := new(MockRepository)
	mailer := new(MockMailer)
	pusher := new(MockPusher)
	svc := NewSenderService(repo, mailer, pusher, newNoopLogger())

	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	stale := &models.PushSubscription{UserUID: "uid-t", Endpoint: "https://push/stale"}
	repo.On("ListPushSubscriptions", mock.Anything, "uid-t").Return([]*models.PushSubscription{stale}, nil)
	pusher.On("Send", *stale, mock.Anything).Return(push.ErrSubscriptionGone)
	repo.On("DeletePushSubscription", mock.Anything, "uid-t", "https://push/stale").Return(nil)

	require.NoError(t, svc.SendRentReminder(context.Background(), reminderBody(t)))
	repo.AssertExpectations(t)
}
