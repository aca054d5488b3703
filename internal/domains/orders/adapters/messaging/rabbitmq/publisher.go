package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

// OrderArchivedRoutingKey is the routing key of order.archived events.
const OrderArchivedRoutingKey = "order.archived"

var _ ports.EventPublisher = (*Publisher)(nil)

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends order events to a topic exchange.
type Publisher struct {
	channel  Channel
	exchange string
	timeout  time.Duration
	now      func() time.Time
}

// NewPublisher creates a publisher for exchange.
func NewPublisher(channel Channel, exchange string) *Publisher {
	return &Publisher{channel: channel, exchange: exchange, timeout: 5 * time.Second, now: time.Now}
}

// PublishOrderArchived publishes a persistent JSON message keyed order.archived.
func (p *Publisher) PublishOrderArchived(ctx context.Context, event domain.OrderArchivedEvent) error {
	if p == nil || p.channel == nil {
		return errors.New("rabbitmq publisher not configured")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order archived event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		OrderArchivedRoutingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    event.ArchiveID,
			Type:         OrderArchivedRoutingKey,
			Timestamp:    p.now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish %s for order %d: %w", OrderArchivedRoutingKey, event.OrderID, err)
	}
	return nil
}
