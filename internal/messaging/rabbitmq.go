package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"farmtap-backend/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQClient publishes and consumes booking events on one durable queue.
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue

	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

func NewRabbitMQClient(url, queueName string) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	logger.Info("RabbitMQ queue declared", "queue", q.Name, "messages", q.Messages)
	return &RabbitMQClient{conn: conn, channel: ch, queue: q}, nil
}

func (c *RabbitMQClient) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			logger.Warn("Error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			logger.Warn("Error closing RabbitMQ connection", "error", err)
		}
	}
}

func (c *RabbitMQClient) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logger.ExternalServiceCall("rabbitmq", "Publish", "queue", c.queue.Name, "type", event.Type, "booking_id", event.BookingID)
	c.mu.Lock()
	err = c.channel.PublishWithContext(publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	c.mu.Unlock()
	logger.ExternalServiceResult("rabbitmq", "Publish", err, "type", event.Type)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}
	return nil
}

// Consume blocks delivering events to handler until ctx is cancelled or the
// broker closes the channel.
func (c *RabbitMQClient) Consume(ctx context.Context, handler BookingEventHandler) error {
	msgs, err := c.channel.Consume(
		c.queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	logger.Info("Consumer registered", "queue", c.queue.Name)
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("RabbitMQ delivery channel closed")
			}
			handleDelivery(ctx, msg, handler)
		case <-ctx.Done():
			logger.Info("Context cancelled, stopping consumer")
			return nil
		}
	}
}

// handleDelivery acks processed messages. Undecodable messages and handler
// failures are dropped without requeue.
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler BookingEventHandler) {
	event, err := DecodeBookingEvent(msg.Body)
	if err != nil {
		logger.Error("Dropping undecodable message", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("Error nacking message", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		logger.Error("Dropping booking event after handler failure", "error", err, "type", event.Type, "booking_id", event.BookingID)
		if err := msg.Nack(false, false); err != nil {
			logger.Error("Error nacking message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("Error acking message", "error", err)
	}
}
