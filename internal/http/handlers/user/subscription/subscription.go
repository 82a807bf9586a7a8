// Package subscription реализует HTTP-обработчик смены уровня подписки пользователя.
package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	services "github.com/magabrotheeeer/contact-hub/internal/services/auth"
)

// Request — входные данные для смены подписки
type Request struct {
	Subscription string `json:"subscription" validate:"required"`
}

type Service interface {
	ChangeSubscription(ctx context.Context, userUID, subscription string) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.subscription"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ChangeSubscription(r.Context(), userUID, req.Subscription); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSubscription):
			log.Error("invalid subscription value", slog.String("subscription", req.Subscription))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(services.ErrInvalidSubscription.Error()))
		case errors.Is(err, services.ErrUserNotFound):
			log.Error("user not found", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to change subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to change subscription"))
		}
		return
	}
	log.Info("subscription changed",
		slog.String("user_uid", userUID),
		slog.String("subscription", req.Subscription))

	w.WriteHeader(http.StatusNoContent)
}
