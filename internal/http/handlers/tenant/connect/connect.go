// Package connect реализует HTTP-обработчик привязки арендатора
// к арендодателю по коду приглашения.
package connect

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
	tenantsvc "github.com/renteaseone/rentease-backend/internal/services/tenant"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// Handler управляет HTTP-запросами на привязку арендатора.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики привязки.
type Service interface {
	Connect(ctx context.Context, tenantUID, landlordCode string) (*models.User, error)
}

// Request — тело запроса привязки.
type Request struct {
	LandlordCode string `json:"landlord_code" validate:"required,len=8"`
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
// @Summary Привязаться к арендодателю
// @Description Привязывает арендатора по коду арендодателя. Повторная привязка перезаписывает предыдущую.
// @Tags Tenant
// @Accept  json
// @Produce  json
// @Param request body Request true "Код арендодателя"
// @Success 200 {object} response.Response "Обновлённый арендатор"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Вызывающий не арендатор"
// @Failure 404 {object} response.ErrorResponse "Код не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /tenants/connect [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tenant.connect"
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

	tenant, err := h.service.Connect(r.Context(), userUID, req.LandlordCode)
	switch {
	case errors.Is(err, tenantsvc.ErrNotTenant):
		log.Error("caller is not a tenant", "uid", userUID)
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("only tenants can connect to a landlord"))
		return
	case errors.Is(err, repository.ErrNotFound):
		log.Error("landlord code not found", "code", req.LandlordCode)
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("landlord code not found"))
		return
	case err != nil:
		log.Error("failed to connect tenant", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not connect to landlord"))
		return
	}

	log.Info("tenant connected", "tenant_uid", userUID)
	render.JSON(w, r, response.OKWithData(tenant))
}
