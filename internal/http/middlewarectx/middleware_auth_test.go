package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renteaseone/rentease-backend/internal/lib/jwt"
	"github.com/renteaseone/rentease-backend/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

type tokenValidator struct {
	maker jwt.Maker
}

func (v tokenValidator) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return v.maker.ParseToken(token)
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	token, err := maker.GenerateToken("uid-1", "ada@example.com", models.RoleTenant)
	require.NoError(t, err)

	var gotUID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = r.Context().Value(UserUID).(string)
		gotRole, _ = r.Context().Value(Role).(string)
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTMiddleware(tokenValidator{maker}, newNoopLogger())(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-token", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	assert.Equal(t, "uid-1", gotUID)
	assert.Equal(t, models.RoleTenant, gotRole)
}

func TestRequireLandlord(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireLandlord(newNoopLogger())(next)

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{name: "landlord passes", role: models.RoleLandlord, wantStatus: http.StatusOK},
		{name: "tenant rejected", role: models.RoleTenant, wantStatus: http.StatusForbidden},
		{name: "no role", role: "", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
			if tt.role != "" {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
