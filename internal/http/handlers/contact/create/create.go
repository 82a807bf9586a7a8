// Package create реализует HTTP-обработчик создания контакта.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	"github.com/magabrotheeeer/contact-hub/internal/models"
)

// Request — входные данные для создания контакта
type Request struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"omitempty,max=32"`
	Subscription string `json:"subscription" validate:"omitempty,max=32"`
}

type Service interface {
	Create(ctx context.Context, contact models.Contact) (int, error)
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
	const op = "handlers.contact.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
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

	id, err := h.service.Create(r.Context(), models.Contact{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Subscription: req.Subscription,
		OwnerUID:     ownerUID,
	})
	if err != nil {
		log.Error("failed to create contact", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create contact"))
		return
	}
	log.Info("contact created", slog.Int("contact_id", id))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
