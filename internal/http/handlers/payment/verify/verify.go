// Package verify реализует HTTP-обработчик подтверждения платежа
// за аренду по reference платёжного шлюза.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/paygate"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// Handler управляет HTTP-запросами подтверждения платежа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения платежа.
type Service interface {
	Verify(ctx context.Context, userUID, reference string) (*models.Receipt, error)
}

// Request — тело запроса подтверждения.
type Request struct {
	Reference string `json:"reference" validate:"required"`
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
// @Summary Подтвердить платёж
// @Description Проверяет reference в платёжном шлюзе и атомарно рассчитывает платёж. Повторный reference возвращает ту же квитанцию.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Reference платежа"
// @Success 200 {object} response.Response "Квитанция"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Reference уже проведён другим пользователем"
// @Failure 502 {object} response.ErrorResponse "Шлюз не подтвердил платёж"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /payments/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	receipt, err := h.service.Verify(r.Context(), userUID, req.Reference)
	if errors.Is(err, paygate.ErrVerificationFailed) {
		log.Error("gateway rejected payment", "reference", req.Reference)
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("payment verification failed"))
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		log.Error("user not found", "reference", req.Reference)
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}
	if errors.Is(err, repository.ErrDuplicate) {
		log.Error("reference already settled by another user", "reference", req.Reference)
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("reference already used"))
		return
	}
	if err != nil {
		log.Error("failed to settle payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not settle payment"))
		return
	}

	log.Info("payment settled", "reference", req.Reference, "receipt_id", receipt.ID)
	render.JSON(w, r, response.OKWithData(receipt))
}
