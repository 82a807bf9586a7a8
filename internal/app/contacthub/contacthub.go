// Package contacthub собирает и запускает основной HTTP-сервис.
package contacthub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/contact-hub/internal/cache"
	"github.com/magabrotheeeer/contact-hub/internal/config"
	"github.com/magabrotheeeer/contact-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/contact-hub/internal/migrations"
	"github.com/magabrotheeeer/contact-hub/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/contact-hub/internal/services/auth"
	contactservice "github.com/magabrotheeeer/contact-hub/internal/services/contacts"
	"github.com/magabrotheeeer/contact-hub/internal/storage"
	"github.com/magabrotheeeer/contact-hub/internal/storage/objectstore"
	"github.com/magabrotheeeer/contact-hub/internal/storage/repository"
)

const rabbitRetries = 5
const rabbitRetryDelay = 3 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	avatarStore, err := objectstore.New(ctx, cfg.Minio)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, rabbitRetries, rabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.VerificationEmailQueue)
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewEmailQueuePublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	users := repository.NewUsers(db)
	contacts := repository.NewContacts(db)

	authService := authservice.NewAuthService(users, jwtMaker, avatarStore, publisher, cacheRedis, logger)
	contactService := contactservice.NewContactService(contacts, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, contactService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
