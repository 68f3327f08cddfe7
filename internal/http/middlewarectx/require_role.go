package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/models"
)

// RequireRole возвращает middleware, пропускающий только пользователей
// с указанной ролью. Остальные получают 403 Forbidden.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := r.Context().Value(Role).(string)
			if !ok || got == "" {
				log.Error("user role missing in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if got != role {
				log.Error("access denied for role", "role", got)
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLandlord пропускает только арендодателей.
func RequireLandlord(log *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(models.RoleLandlord, log)
}

// RequireTenant пропускает только арендаторов.
func RequireTenant(log *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(models.RoleTenant, log)
}
