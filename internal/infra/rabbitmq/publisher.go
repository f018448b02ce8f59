package rabbitmq

import (
	"context"
	"time"

	"eventsdiscovery/internal/logging"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ExchangeName = "events"

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends messages to the durable "events" topic exchange.
type Publisher struct {
	channel channel
	timeout time.Duration
}

type declaringChannel interface {
	channel
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

func NewPublisher(conn *Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	return newPublisher(ch)
}

// newPublisher declares the exchange on ch and closes ch if that fails.
func newPublisher(ch declaringChannel) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	return &Publisher{channel: ch, timeout: 10 * time.Second}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte, correlationID string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	logging.Ctx(ctx).Debug().
		Str("routing_key", routingKey).
		Str("correlation_id", correlationID).
		Msg("publishing message")

	return p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			Timestamp:     time.Now(),
		},
	)
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}
