// Package remindrent реализует HTTP-обработчик немедленного напоминания
// арендатору о назначенной аренде.
package remindrent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	landlordsvc "github.com/renteaseone/rentease-backend/internal/services/landlord"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// Handler управляет HTTP-запросами ручного напоминания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики напоминаний.
type Service interface {
	RemindRent(ctx context.Context, landlordUID, tenantUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Напомнить об аренде
// @Description Немедленно отправляет арендатору внутреннее и push-уведомление о назначенной аренде.
// @Tags Landlord
// @Produce  json
// @Param id path string true "UID арендатора"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "У арендатора нет назначенной аренды"
// @Failure 403 {object} response.ErrorResponse "Арендатор чужой"
// @Failure 404 {object} response.ErrorResponse "Арендатор не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /landlord/tenants/{id}/remind-rent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.landlord.remindrent"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	landlordUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || landlordUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	tenantUID := chi.URLParam(r, "id")

	err := h.service.RemindRent(r.Context(), landlordUID, tenantUID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Error("tenant not found", "tenant_uid", tenantUID)
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("tenant not found"))
		return
	case errors.Is(err, landlordsvc.ErrNotOwnTenant):
		log.Error("tenant belongs to another landlord", "tenant_uid", tenantUID)
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("tenant is not connected to you"))
		return
	case errors.Is(err, landlordsvc.ErrNoPendingRent):
		log.Error("tenant has no pending rent", "tenant_uid", tenantUID)
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("tenant has no pending rent"))
		return
	case err != nil:
		log.Error("failed to remind rent", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send reminder"))
		return
	}

	log.Info("rent reminder sent", "tenant_uid", tenantUID)
	render.JSON(w, r, response.OK())
}
