package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/calldesk/internal/entity"
	"github.com/xavierca1/calldesk/internal/usecase"
)

type capturePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (c *capturePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func TestProducer_PublishLeadEvent(t *testing.T) {
	pub := &capturePublisher{}
	p := &RabbitMQProducer{Ch: pub}

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ev := usecase.LeadEvent{UserID: "u1", LeadID: "l1", LeadName: "Jane", Status: entity.StatusBooked, OccurredAt: at}

	require.NoError(t, p.PublishLeadEvent(context.Background(), ev))
	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "application/json", pub.msg.ContentType)

	var got usecase.LeadEvent
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, "l1", got.LeadID)
	assert.Equal(t, entity.StatusBooked, got.Status)
	assert.True(t, at.Equal(got.OccurredAt))
}

func TestProducer_PublishFailure(t *testing.T) {
	p := &RabbitMQProducer{Ch: &capturePublisher{err: errors.New("channel closed")}}
	err := p.PublishLeadEvent(context.Background(), usecase.LeadEvent{LeadID: "l1"})
	assert.ErrorContains(t, err, "channel closed")
}
