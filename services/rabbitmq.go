package services

import (
	"context"
	"encoding/json"
	"fmt"

	"socialbook/logger"
	"socialbook/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const notificationExchange = "notification_events"

// RabbitEventBus публикует события в topic exchange, routing key user.<username>
type RabbitEventBus struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewRabbitEventBus(url, queue string) (*RabbitEventBus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	// Создаем exchange типа topic
	if err := channel.ExchangeDeclare(
		notificationExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	logger.Info("RabbitMQ initialized", zap.String("exchange", notificationExchange), zap.String("queue", queue))
	return &RabbitEventBus{conn: conn, channel: channel, queue: queue}, nil
}

func routingKey(username string) string {
	return "user." + username
}

func (b *RabbitEventBus) Publish(ctx context.Context, event models.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.channel.PublishWithContext(ctx,
		notificationExchange,
		routingKey(event.Notification.ToUser),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Consume слушает очередь и передает события handler до отмены ctx
func (b *RabbitEventBus) Consume(ctx context.Context, handler EventHandler) error {
	q, err := b.channel.QueueDeclare(
		b.queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := b.channel.QueueBind(q.Name, "user.*", notificationExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	msgs, err := b.channel.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Warn("notification consumer channel closed")
					return
				}
				var event models.NotificationEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					logger.Warn("failed to unmarshal notification event", zap.Error(err))
					continue
				}
				handler(event)
			}
		}
	}()
	return nil
}

func (b *RabbitEventBus) Close() error {
	if err := b.channel.Close(); err != nil {
		logger.Warn("failed to close RabbitMQ channel", zap.Error(err))
	}
	return b.conn.Close()
}
