// Package setrent реализует HTTP-обработчик назначения аренды арендатору.
//
// Сервисный сбор считается на стороне бизнес-логики, арендодатель задаёт
// только сумму аренды.
package setrent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
	landlordsvc "github.com/renteaseone/rentease-backend/internal/services/landlord"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// Handler управляет HTTP-запросами назначения аренды.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики назначения аренды.
type Service interface {
	SetRent(ctx context.Context, landlordUID, tenantUID string, amount int64) (*models.PendingRent, error)
}

// Request — тело запроса назначения аренды.
type Request struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Назначить аренду
// @Description Назначает арендатору сумму аренды; сервисный сбор 3% добавляется автоматически.
// @Tags Landlord
// @Accept  json
// @Produce  json
// @Param id path string true "UID арендатора"
// @Param request body Request true "Сумма аренды"
// @Success 200 {object} response.Response "Назначенная аренда со сбором"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Арендатор чужой"
// @Failure 404 {object} response.ErrorResponse "Арендатор не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /landlord/tenants/{id}/set-rent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.landlord.setrent"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	landlordUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || landlordUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	tenantUID := chi.URLParam(r, "id")

	rent, err := h.service.SetRent(r.Context(), landlordUID, tenantUID, req.Amount)
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
	case err != nil:
		log.Error("failed to set rent", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not set rent"))
		return
	}

	log.Info("rent set", "tenant_uid", tenantUID, "total", rent.Total)
	render.JSON(w, r, response.OKWithData(rent))
}
