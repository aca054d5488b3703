// Package rabbitmq dials the event broker and declares the exchange events are published to.
package rabbitmq

import (
	"fmt"
	"log/slog"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connect dials url, opens a channel and declares a durable topic exchange.
func Connect(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return conn, ch, nil
}

// ConnectOrNil connects when url is set. Events are optional, so failures are
// logged and reported as a nil channel.
func ConnectOrNil(url, exchange string, logger *slog.Logger) (*amqp.Channel, func()) {
	if strings.TrimSpace(url) == "" {
		logger.Info("AMQP_URL not set, order events disabled")
		return nil, func() {}
	}
	conn, ch, err := Connect(url, exchange)
	if err != nil {
		logger.Warn("failed to connect to rabbitmq, order events disabled", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("order events publishing to rabbitmq", slog.String("exchange", exchange))
	return ch, func() {
		_ = ch.Close()
		_ = conn.Close()
	}
}
