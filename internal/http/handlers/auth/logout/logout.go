// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
)

type Service interface {
	Logout(ctx context.Context, userUID string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

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

	if err := h.service.Logout(r.Context(), userUID); err != nil {
		log.Error("logout failed", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authorized"))
		return
	}
	log.Info("user logged out", slog.String("user_uid", userUID))

	w.WriteHeader(http.StatusNoContent)
}
