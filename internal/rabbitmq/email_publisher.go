package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/contact-hub/internal/models"
)

// EmailQueuePublisher публикует письма подтверждения в обменник писем.
type EmailQueuePublisher struct {
	ch *amqp.Channel
}

// NewEmailQueuePublisher создает издателя поверх открытого канала.
func NewEmailQueuePublisher(ch *amqp.Channel) *EmailQueuePublisher {
	return &EmailQueuePublisher{ch: ch}
}

// PublishVerificationEmail отправляет сообщение о письме подтверждения в очередь.
func (p *EmailQueuePublisher) PublishVerificationEmail(msg models.VerificationEmail) error {
	return PublishMessage(p.ch, EmailsExchange, VerificationRoutingKey, msg)
}
