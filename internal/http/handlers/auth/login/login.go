// Package login реализует HTTP-обработчик входа пользователя.
package login

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	services "github.com/magabrotheeeer/contact-hub/internal/services/auth"
)

// Request — входные данные для входа
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
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
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Один и тот же ответ для незнакомого email и неверного пароля.
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Error("invalid credentials")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error(services.ErrInvalidCredentials.Error()))
			return
		}
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to login"))
		return
	}
	log.Info("user logged in", slog.String("email", user.Email))

	render.JSON(w, r, map[string]any{
		"token": token,
		"user": map[string]any{
			"email":        user.Email,
			"subscription": user.Subscription,
		},
	})
}
