// Package read реализует HTTP-обработчик получения контакта по идентификатору.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	"github.com/magabrotheeeer/contact-hub/internal/models"
	"github.com/magabrotheeeer/contact-hub/internal/storage"
)

type Service interface {
	Read(ctx context.Context, id int, ownerUID string) (*models.Contact, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.read"

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

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	contact, err := h.service.Read(r.Context(), id, ownerUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("contact not found", slog.Int("contact_id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("contact not found"))
			return
		}
		log.Error("failed to read contact", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read contact"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(contact))
}
