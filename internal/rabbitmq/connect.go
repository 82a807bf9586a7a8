// Package rabbitmq содержит подключение к брокеру, объявление очереди писем
// и функции публикации/потребления сообщений.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Имя обменника и ключ маршрутизации писем подтверждения регистрации.
const (
	EmailsExchange         = "emails"
	VerificationRoutingKey = "verification"
)

// Connect устанавливает соединение с RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал и объявляет обменник с очередью писем подтверждения.
func SetupChannel(conn *amqp.Connection, queueName string) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		EmailsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, queueName, err)
	}

	err = ch.QueueBind(
		queueName,
		VerificationRoutingKey,
		EmailsExchange,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, queueName, err)
	}

	return ch, nil
}
