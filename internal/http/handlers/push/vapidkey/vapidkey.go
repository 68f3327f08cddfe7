// Package vapidkey реализует HTTP-обработчик выдачи публичного VAPID ключа.
package vapidkey

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/response"
)

// Handler отдает публичный VAPID ключ для браузерной подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения ключа.
type Service interface {
	VAPIDPublicKey() string
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Публичный VAPID ключ
// @Description Возвращает публичный VAPID ключ, которым браузер подписывается на push.
// @Tags Push
// @Produce  json
// @Success 200 {object} response.Response "Публичный ключ"
// @Security BearerAuth
// @Router /push/vapid-key [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.push.vapidkey"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	key := h.service.VAPIDPublicKey()
	log.Info("vapid public key requested")
	render.JSON(w, r, response.OKWithData(map[string]string{"public_key": key}))
}
