// Package verify реализует HTTP-обработчик подтверждения почты по токену из письма.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	services "github.com/magabrotheeeer/contact-hub/internal/services/auth"
)

type Service interface {
	VerifyEmail(ctx context.Context, token string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if token == "" {
		log.Error("missing verification token")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing verification token"))
		return
	}

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		// Повторный заход по той же ссылке попадает сюда же.
		if errors.Is(err, services.ErrUserNotFound) {
			log.Error("verification token not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("verification failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to verify email"))
		return
	}
	log.Info("email verified")

	render.JSON(w, r, response.StatusOKWithData("User successfully verified"))
}
