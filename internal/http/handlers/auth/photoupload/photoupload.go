// Package photoupload реализует HTTP-обработчик загрузки фотографии профиля.
package photoupload

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/http/response"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/lib/upload"
)

// Handler управляет HTTP-запросами загрузки фотографии.
type Handler struct {
	log        *slog.Logger
	service    Service
	uploadsDir string
}

// Service описывает интерфейс бизнес-логики обновления фотографии.
type Service interface {
	UpdatePhoto(ctx context.Context, userUID, path string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service, uploadsDir string) *Handler {
	return &Handler{log: log, service: service, uploadsDir: uploadsDir}
}

// ServeHTTP godoc
// @Summary Загрузить фотографию профиля
// @Description Принимает multipart-поле photo: JPG или PNG до 5 МБ.
// @Tags Auth
// @Accept  multipart/form-data
// @Produce  json
// @Param photo formData file true "Фотография профиля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует, слишком велик или неверного типа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /me/photo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.photoupload"
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

	file, header, err := r.FormFile("photo")
	if err != nil {
		log.Error("photo field missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("photo file is required"))
		return
	}
	defer file.Close()

	stored, err := upload.Save(file, header, filepath.Join(h.uploadsDir, "photos"), upload.PhotoTypes)
	if errors.Is(err, upload.ErrTooLarge) || errors.Is(err, upload.ErrBadType) {
		log.Error("photo rejected", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	if err != nil {
		log.Error("failed to store photo", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not store photo"))
		return
	}

	if err := h.service.UpdatePhoto(r.Context(), userUID, stored.Path); err != nil {
		log.Error("failed to update photo", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update photo"))
		return
	}

	log.Info("photo updated", "uid", userUID)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"photo": stored.Path,
	}))
}
