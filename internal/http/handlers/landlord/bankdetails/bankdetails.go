// Package bankdetails реализует HTTP-обработчики платёжных реквизитов
// арендодателя: сохранение и чтение.
package bankdetails

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
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики реквизитов.
type Service interface {
	SaveBankDetails(ctx context.Context, details models.BankDetails) (*models.BankDetails, error)
	BankDetails(ctx context.Context, landlordUID string) (*models.BankDetails, error)
}

// Request — тело запроса сохранения реквизитов.
type Request struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
}

// SaveHandler управляет сохранением реквизитов.
type SaveHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewSave создает новый SaveHandler.
func NewSave(log *slog.Logger, service Service) *SaveHandler {
	return &SaveHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сохранить реквизиты
// @Description Создает или обновляет платёжные реквизиты арендодателя.
// @Tags Landlord
// @Accept  json
// @Produce  json
// @Param request body Request true "Реквизиты"
// @Success 200 {object} response.Response "Сохранённые реквизиты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /landlord/bank-details [post]
func (h *SaveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.landlord.bankdetails.save"
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

	saved, err := h.service.SaveBankDetails(r.Context(), models.BankDetails{
		LandlordUID:   landlordUID,
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		log.Error("failed to save bank details", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save bank details"))
		return
	}

	log.Info("bank details saved", "landlord_uid", landlordUID)
	render.JSON(w, r, response.OKWithData(saved))
}

// GetHandler управляет чтением реквизитов.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает новый GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить реквизиты
// @Description Возвращает платёжные реквизиты арендодателя.
// @Tags Landlord
// @Produce  json
// @Success 200 {object} response.Response "Реквизиты"
// @Failure 404 {object} response.ErrorResponse "Реквизиты не заполнены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /landlord/bank-details [get]
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.landlord.bankdetails.get"
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

	details, err := h.service.BankDetails(r.Context(), landlordUID)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("bank details are not set"))
		return
	}
	if err != nil {
		log.Error("failed to load bank details", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load bank details"))
		return
	}

	render.JSON(w, r, response.OKWithData(details))
}
