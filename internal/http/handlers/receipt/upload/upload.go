// Package upload реализует HTTP-обработчик загрузки файла-подтверждения
// оплаты аренды.
package upload

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	uploadlib "github.com/renteaseone/rentease-backend/internal/lib/upload"
	"github.com/renteaseone/rentease-backend/internal/models"
)

// Handler управляет HTTP-запросами загрузки подтверждений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики загрузки подтверждений.
type Service interface {
	Upload(ctx context.Context, userUID string, file multipart.File, header *multipart.FileHeader) (*models.Receipt, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Загрузить подтверждение оплаты
// @Description Принимает multipart-поле receipt: PDF, JPG или PNG до 5 МБ.
// @Tags Receipts
// @Accept  multipart/form-data
// @Produce  json
// @Param receipt formData file true "Файл подтверждения"
// @Success 200 {object} response.Response "Созданная квитанция"
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует, слишком велик или неверного типа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /receipts/upload [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.upload"
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

	file, header, err := r.FormFile("receipt")
	if err != nil {
		log.Error("receipt field missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("receipt file is required"))
		return
	}
	defer file.Close()

	receipt, err := h.service.Upload(r.Context(), userUID, file, header)
	if errors.Is(err, uploadlib.ErrTooLarge) || errors.Is(err, uploadlib.ErrBadType) {
		log.Error("receipt rejected", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	if err != nil {
		log.Error("failed to upload receipt", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not upload receipt"))
		return
	}

	log.Info("receipt uploaded", "id", receipt.ID)
	render.JSON(w, r, response.OKWithData(receipt))
}
