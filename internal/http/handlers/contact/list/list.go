// Package list реализует HTTP-обработчик постраничного списка контактов.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contact-hub/internal/http/response"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	"github.com/magabrotheeeer/contact-hub/internal/models"
)

type Service interface {
	List(ctx context.Context, ownerUID string, filter models.ContactFilter) ([]*models.Contact, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP поддерживает параметры page, limit и необязательный фильтр sub
// по метке подписки контакта.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.list"

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

	// Некорректные значения молча заменяются значениями по умолчанию.
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	filter := models.ContactFilter{
		Page:         page,
		Limit:        limit,
		Subscription: r.URL.Query().Get("sub"),
	}

	res, err := h.service.List(r.Context(), ownerUID, filter)
	if err != nil {
		log.Error("failed to list contacts", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list contacts"))
		return
	}

	log.Info("contacts listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"contacts":   res,
	}))
}
