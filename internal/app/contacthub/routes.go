// Package contacthub предоставляет маршруты для основного приложения.
package contacthub

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/contact-hub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/contact-hub/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/contact-hub/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/contact-hub/internal/http/handlers/auth/verify"
	contactcreate "github.com/magabrotheeeer/contact-hub/internal/http/handlers/contact/create"
	contactlist "github.com/magabrotheeeer/contact-hub/internal/http/handlers/contact/list"
	contactread "github.com/magabrotheeeer/contact-hub/internal/http/handlers/contact/read"
	contactremove "github.com/magabrotheeeer/contact-hub/internal/http/handlers/contact/remove"
	contactupdate "github.com/magabrotheeeer/contact-hub/internal/http/handlers/contact/update"
	"github.com/magabrotheeeer/contact-hub/internal/http/handlers/user/avatar"
	"github.com/magabrotheeeer/contact-hub/internal/http/handlers/user/current"
	"github.com/magabrotheeeer/contact-hub/internal/http/handlers/user/subscription"
	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/contact-hub/internal/services/auth"
	contactservice "github.com/magabrotheeeer/contact-hub/internal/services/contacts"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, contactService *contactservice.ContactService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытая ссылка из письма подтверждения
	r.Get("/auth/verify/{token}", verify.New(logger, authService).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/logout", logout.New(logger, authService).ServeHTTP)

			r.Get("/users/current", current.New(logger).ServeHTTP)
			r.Patch("/users/subscription", subscription.New(logger, authService).ServeHTTP)
			r.Patch("/users/avatar", avatar.New(logger, authService).ServeHTTP)

			r.Post("/contacts", contactcreate.New(logger, contactService).ServeHTTP)
			r.Get("/contacts", contactlist.New(logger, contactService).ServeHTTP)
			r.Get("/contacts/{id}", contactread.New(logger, contactService).ServeHTTP)
			r.Put("/contacts/{id}", contactupdate.New(logger, contactService).ServeHTTP)
			r.Delete("/contacts/{id}", contactremove.New(logger, contactService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
