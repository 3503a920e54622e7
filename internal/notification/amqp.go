package notification

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier publishes notification events to a RabbitMQ queue as JSON.
type AMQPNotifier struct {
	ch    *amqp.Channel
	queue string
}

// NewAMQPNotifier declares the queue and returns a publisher bound to it.
func NewAMQPNotifier(ch *amqp.Channel, queue string) (*AMQPNotifier, error) {
	if queue == "" {
		queue = "dinarpay.notifications"
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &AMQPNotifier{ch: ch, queue: queue}, nil
}

// Send publishes the message to the notification queue.
func (n *AMQPNotifier) Send(ctx context.Context, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return n.ch.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}
