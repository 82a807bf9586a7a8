// Package avatar реализует HTTP-обработчик загрузки нового аватара пользователя.
package avatar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	services "github.com/magabrotheeeer/contact-hub/internal/services/auth"
)

// Предел размера загружаемого файла.
const maxAvatarSize = 5 << 20

type Service interface {
	UpdateAvatar(ctx context.Context, userUID string, imageData []byte, filename string) (string, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP принимает multipart-форму с полем avatar и обновляет
// аватар текущего пользователя.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.avatar"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authorized"))
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		log.Error("missing avatar file", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("avatar file is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize+1))
	if err != nil {
		log.Error("failed to read avatar file", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read avatar file"))
		return
	}
	if len(data) > maxAvatarSize {
		log.Error("avatar file too large", slog.String("filename", header.Filename))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("avatar file too large"))
		return
	}

	url, err := h.service.UpdateAvatar(r.Context(), userUID, data, header.Filename)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Error("user not found", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to update avatar", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update avatar"))
		return
	}
	log.Info("avatar updated", slog.String("user_uid", userUID))

	render.JSON(w, r, map[string]any{"avatarURL": url})
}
