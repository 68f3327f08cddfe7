package rentease

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// Проверяет, что публичная поверхность API зарегистрирована по ожидаемым
// путям. Обработчики здесь не вызываются, поэтому сервисы не нужны.
func TestRegisterRoutes_PublicSurface(t *testing.T) {
	router := chi.NewRouter()
	RegisterRoutes(router, newNoopLogger(), &Services{})

	registered := map[string]bool{}
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/forgot-password",
		"POST /api/auth/reset-password",
		"POST /api/auth/choose-role",
		"GET /api/me",
		"POST /api/me/photo",
		"POST /api/tenants/connect",
		"POST /api/tenants/complaints",
		"POST /api/payments/verify",
		"GET /api/payments/my",
		"POST /api/receipts/upload",
		"GET /api/receipts/all",
		"GET /api/receipts/download/{id}",
		"GET /api/landlord/tenants",
		"DELETE /api/landlord/tenants/{id}",
		"POST /api/landlord/tenants/{id}/set-rent",
		"POST /api/landlord/tenants/{id}/remind-rent",
		"POST /api/landlord/tenants/{id}/trigger-alarm",
		"POST /api/landlord/bank-details",
		"GET /api/landlord/bank-details",
		"GET /api/landlord/complaints",
		"GET /api/notifications",
		"POST /api/notifications/{id}/read",
		"GET /api/notifications/stream",
		"GET /api/push/vapid-key",
		"POST /api/push/subscribe",
		"POST /api/push/unsubscribe",
		"GET /health",
		"GET /docs/*",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "route %s is not registered", route)
	}
}
