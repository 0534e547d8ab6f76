package events

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Dial connects to RabbitMQ. The broker is optional for this service: when no
// URL is configured, main skips event publishing entirely.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return conn, nil
}
