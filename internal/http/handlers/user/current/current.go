// Package current реализует HTTP-обработчик получения данных текущего пользователя.
package current

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/models"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP отдает проекцию пользователя, положенного в контекст
// JWT-middleware. Хэш пароля и токен подтверждения наружу не выходят.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.current"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := r.Context().Value(middlewarectx.UserKey).(*models.User)
	if !ok || user == nil {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authorized"))
		return
	}

	render.JSON(w, r, map[string]any{
		"email":        user.Email,
		"subscription": user.Subscription,
		"avatarURL":    user.AvatarURL,
	})
}
