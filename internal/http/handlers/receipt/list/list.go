// Package list реализует HTTP-обработчик списка всех квитанций
// для арендодателя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
)

// Handler управляет HTTP-запросами списка квитанций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка квитанций.
type Service interface {
	ListAll(ctx context.Context) ([]*models.ReceiptInfo, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список квитанций
// @Description Возвращает все квитанции с данными владельцев, новые первыми. Доступно только арендодателям.
// @Tags Receipts
// @Produce  json
// @Success 200 {object} response.Response "Квитанции"
// @Failure 403 {object} response.ErrorResponse "Вызывающий не арендодатель"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /receipts/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	receipts, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list receipts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list receipts"))
		return
	}

	render.JSON(w, r, response.OKWithData(receipts))
}
