// Package stream реализует SSE-поток уведомлений в реальном времени.
//
// Пока поток открыт, пользователь считается онлайн и получает новые
// уведомления без web-push.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/presence"
)

// Handler управляет SSE-потоками уведомлений.
type Handler struct {
	log *slog.Logger
	hub *presence.Hub
}

// New создает новый Handler с переданными логгером и реестром потоков.
func New(log *slog.Logger, hub *presence.Hub) *Handler {
	return &Handler{log: log, hub: hub}
}

// ServeHTTP godoc
// @Summary Поток уведомлений
// @Description Открывает SSE-поток; каждое новое уведомление приходит событием notification.
// @Tags Notifications
// @Produce  text/event-stream
// @Success 200 {string} string "Поток событий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.stream"
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

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming unsupported by response writer")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.hub.Subscribe(userUID)
	defer h.hub.Unsubscribe(userUID, ch)
	log.Info("notification stream opened", "user_uid", userUID)

	for {
		select {
		case <-r.Context().Done():
			log.Info("notification stream closed", "user_uid", userUID)
			return
		case notification, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(notification)
			if err != nil {
				log.Error("failed to marshal notification", sl.Err(err))
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
