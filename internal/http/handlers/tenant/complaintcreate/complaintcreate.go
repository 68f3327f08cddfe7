// Package complaintcreate реализует HTTP-обработчик подачи жалобы
// арендатором своему арендодателю.
package complaintcreate

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
)

// Handler управляет HTTP-запросами на подачу жалобы.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики жалоб.
type Service interface {
	FileComplaint(ctx context.Context, tenantUID, title, description string) (*models.Complaint, error)
}

// Request — тело запроса жалобы.
type Request struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
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
// @Summary Подать жалобу
// @Description Создает жалобу на текущего арендодателя арендатора.
// @Tags Tenant
// @Accept  json
// @Produce  json
// @Param request body Request true "Заголовок и описание жалобы"
// @Success 200 {object} response.Response "Созданная жалоба"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Арендатор не привязан к арендодателю"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /tenants/complaints [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tenant.complaintcreate"
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

	// Валидация полей идёт раньше проверки привязки: пустой заголовок
	// даёт 422 даже у неподключённого арендатора.
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

	complaint, err := h.service.FileComplaint(r.Context(), userUID, req.Title, req.Description)
	switch {
	case errors.Is(err, tenantsvc.ErrNotTenant), errors.Is(err, tenantsvc.ErrNotConnected):
		log.Error("complaint rejected", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("you are not connected to a landlord"))
		return
	case err != nil:
		log.Error("failed to create complaint", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create complaint"))
		return
	}

	log.Info("complaint created", "id", complaint.ID)
	render.JSON(w, r, response.OKWithData(complaint))
}
