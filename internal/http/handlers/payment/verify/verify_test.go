package verify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/paygate"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Verify(ctx context.Context, userUID, reference string) (*models.Receipt, error) {
	args := m.Called(ctx, userUID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestVerifyHandler(t *testing.T) {
	ref := "ref123"
	receipt := &models.Receipt{ID: 1, UserUID: "uid-t", Kind: models.ReceiptKindGateway, RentAmount: 10000, ServiceFee: 300, TotalPaid: 10300, Reference: &ref}

	tests := []struct {
		name           string
		body           string
		withAuth       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "settled",
			body:     `{"reference": "ref123"}`,
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Verify", mock.Anything, "uid-t", "ref123").Return(receipt, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_paid":10300`,
		},
		{
			name:     "gateway declined",
			body:     `{"reference": "bad"}`,
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Verify", mock.Anything, "uid-t", "bad").Return(nil, paygate.ErrVerificationFailed)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `payment verification failed`,
		},
		{
			name:     "unknown user",
			body:     `{"reference": "ref123"}`,
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Verify", mock.Anything, "uid-t", "ref123").
					Return(nil, fmt.Errorf("storage.SettlePayment: %w", repository.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `user not found`,
		},
		{
			name:     "foreign reference",
			body:     `{"reference": "ref123"}`,
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Verify", mock.Anything, "uid-t", "ref123").
					Return(nil, fmt.Errorf("storage.SettlePayment: %w", repository.ErrDuplicate))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `reference already used`,
		},
		{
			name:           "missing reference",
			body:           `{}`,
			withAuth:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Reference`,
		},
		{
			name:           "no auth context",
			body:           `{"reference": "ref123"}`,
			withAuth:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(tt.body))
			if tt.withAuth {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-t"))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
