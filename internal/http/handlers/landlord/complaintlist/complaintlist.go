// Package complaintlist реализует HTTP-обработчик списка жалоб арендодателя.
package complaintlist

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

// Handler управляет HTTP-запросами списка жалоб.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка жалоб.
type Service interface {
	ListComplaints(ctx context.Context, landlordUID string) ([]*models.ComplaintInfo, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список жалоб
// @Description Возвращает жалобы на арендодателя с данными арендаторов, новые первыми.
// @Tags Landlord
// @Produce  json
// @Success 200 {object} response.Response "Жалобы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /landlord/complaints [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.landlord.complaintlist"
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

	complaints, err := h.service.ListComplaints(r.Context(), landlordUID)
	if err != nil {
		log.Error("failed to list complaints", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list complaints"))
		return
	}

	render.JSON(w, r, response.OKWithData(complaints))
}
