package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"eventsdiscovery/internal/logging"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	URL  string
	Conn *amqp.Connection
}

// Connect dials url, retrying until attempts run out or ctx is done.
func Connect(ctx context.Context, url string, attempts int) (*Connection, error) {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(url)
		if err == nil {
			logging.Info().Msg("connected to RabbitMQ")
			return &Connection{URL: url, Conn: conn}, nil
		}
		logging.Warn().Err(err).Int("attempt", i).Int("of", attempts).Msg("RabbitMQ connect failed")
		if i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("could not connect to RabbitMQ after %d attempts: %w", attempts, err)
}

func (c *Connection) Channel() (*amqp.Channel, error) {
	return c.Conn.Channel()
}

func (c *Connection) Close() error {
	if c.Conn != nil {
		return c.Conn.Close()
	}
	return nil
}
