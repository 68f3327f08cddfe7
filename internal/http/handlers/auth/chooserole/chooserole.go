// Package chooserole реализует HTTP-обработчик одноразового выбора роли.
//
// Арендодатель вместе с ролью получает уникальный код для приглашения
// арендаторов.
package chooserole

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
	authsvc "github.com/renteaseone/rentease-backend/internal/services/auth"
)

// Handler управляет HTTP-запросами на выбор роли.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики выбора роли.
type Service interface {
	ChooseRole(ctx context.Context, userUID, role string) (*models.User, error)
}

// Request — тело запроса выбора роли.
type Request struct {
	Role string `json:"role" validate:"required,oneof=tenant landlord"`
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
// @Summary Выбрать роль
// @Description Одноразово назначает пользователю роль tenant или landlord.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Выбранная роль"
// @Success 200 {object} response.Response "Пользователь с ролью"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Роль уже выбрана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/choose-role [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.chooserole"
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

	user, err := h.service.ChooseRole(r.Context(), userUID, req.Role)
	if errors.Is(err, authsvc.ErrRoleAlreadySet) {
		log.Error("role already set", "uid", userUID)
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("role already set"))
		return
	}
	if err != nil {
		log.Error("failed to choose role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not choose role"))
		return
	}

	log.Info("role chosen", "uid", userUID, "role", req.Role)
	render.JSON(w, r, response.OKWithData(user))
}
