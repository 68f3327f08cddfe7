package paygate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/ref123", r.URL.Path)
		require.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "ref123",
				"amount": 1030000,
				"channel": "card",
				"gateway_response": "Successful",
				"paid_at": "2024-05-01T12:00:00Z"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_key", srv.URL, 5*time.Second)
	payment, err := client.VerifyTransaction(context.Background(), "ref123")
	require.NoError(t, err)

	assert.Equal(t, "ref123", payment.Reference)
	assert.Equal(t, int64(10300), payment.TotalPaid)
	assert.Equal(t, "card", payment.Channel)
	assert.Equal(t, "Successful", payment.GatewayResponse)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), payment.PaidAt)
}

func TestVerifyTransaction_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": false, "message": "Transaction not found", "data": {}}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_key", srv.URL, 5*time.Second)
	_, err := client.VerifyTransaction(context.Background(), "missing")
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyTransaction_AbandonedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": true, "message": "ok", "data": {"status": "abandoned", "reference": "ref9"}}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_key", srv.URL, 5*time.Second)
	_, err := client.VerifyTransaction(context.Background(), "ref9")
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyTransaction_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient("sk_test_key", srv.URL, 5*time.Second)
	_, err := client.VerifyTransaction(context.Background(), "ref123")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrVerificationFailed)
}
