// Package download реализует HTTP-обработчик выдачи документа квитанции.
//
// Загруженные файлы отдаются с диска, шлюзовые квитанции рендерятся
// в PDF на лету.
package download

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	receiptsvc "github.com/renteaseone/rentease-backend/internal/services/receipt"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// Handler управляет HTTP-запросами выдачи документа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи документа.
type Service interface {
	Document(ctx context.Context, id int) (*receiptsvc.Document, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Скачать квитанцию
// @Description Отдаёт документ квитанции: файл загрузки или сгенерированный PDF.
// @Tags Receipts
// @Produce  application/pdf
// @Param id path int true "ID квитанции"
// @Success 200 {file} file "Документ"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Квитанция не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /receipts/download/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.download"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid receipt id"))
		return
	}

	doc, err := h.service.Document(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Error("receipt not found", "id", id)
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("receipt not found"))
		return
	}
	if err != nil {
		log.Error("failed to build receipt document", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build receipt document"))
		return
	}

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	if doc.Path != "" {
		http.ServeFile(w, r, doc.Path)
		return
	}
	if _, err := w.Write(doc.Content); err != nil {
		log.Error("failed to write receipt document", sl.Err(err))
	}
}
