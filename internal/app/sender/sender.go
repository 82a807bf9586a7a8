// Package sender собирает и запускает воркер отправки писем подтверждения.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/contact-hub/internal/config"
	"github.com/magabrotheeeer/contact-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/contact-hub/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/contact-hub/internal/services/sender"
)

const rabbitRetries = 5
const rabbitRetryDelay = 3 * time.Second

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	queueName     string
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, rabbitRetries, rabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.VerificationEmailQueue)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(newTransport, cfg.PublicURL, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		queueName:     cfg.RabbitMQ.VerificationEmailQueue,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.queueName, a.senderService.SendVerificationEmail)
	if err != nil {
		a.logger.Error("failed to start verification email consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
