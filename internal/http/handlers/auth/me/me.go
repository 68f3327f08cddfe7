// Package me реализует HTTP-обработчик профиля текущего пользователя.
//
// Для арендатора профиль дополняется данными его арендодателя
// и банковскими реквизитами.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
)

// Handler управляет HTTP-запросами профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профиля.
type Service interface {
	Me(ctx context.Context, userUID string) (*models.TenantProfile, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает пользователя; арендатору — вместе с арендодателем и его реквизитами.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Профиль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	profile, err := h.service.Me(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(profile))
}
