package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	deadline bool
	err      error
}

func (c *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.msg = msg
	_, c.deadline = ctx.Deadline()
	return c.err
}

func TestPublishOrderArchived(t *testing.T) {
	ch := &recordingChannel{}
	publisher := NewPublisher(ch, "inventory.events")
	deletedAt := time.Date(2024, time.April, 2, 9, 30, 0, 0, time.UTC)

	err := publisher.PublishOrderArchived(context.Background(), domain.OrderArchivedEvent{
		OrderID: 42, ArchiveID: "a-42", DeletedAt: deletedAt, OrderItems: 3, Shipments: 2,
	})

	require.NoError(t, err)
	require.Equal(t, "inventory.events", ch.exchange)
	require.Equal(t, OrderArchivedRoutingKey, ch.key)
	require.True(t, ch.deadline)
	require.Equal(t, "application/json", ch.msg.ContentType)
	require.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	require.Equal(t, "a-42", ch.msg.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	require.Equal(t, float64(42), body["orderId"])
	require.Equal(t, "a-42", body["archiveId"])
	require.Equal(t, "2024-04-02T09:30:00Z", body["deletedAt"])
	require.Equal(t, float64(3), body["orderItems"])
	require.Equal(t, float64(2), body["shipments"])
}

func TestPublishOrderArchived_WrapsChannelErrors(t *testing.T) {
	closed := errors.New("channel closed")
	publisher := NewPublisher(&recordingChannel{err: closed}, "inventory.events")

	err := publisher.PublishOrderArchived(context.Background(), domain.OrderArchivedEvent{OrderID: 1})
	require.ErrorIs(t, err, closed)

	var unconfigured *Publisher
	require.Error(t, unconfigured.PublishOrderArchived(context.Background(), domain.OrderArchivedEvent{}))
}
