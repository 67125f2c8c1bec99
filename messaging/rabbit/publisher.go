package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-devkit/logconv/logger"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

type Publisher struct {
	ch  publishChannel
	log *logger.Log
}

func newPublisher(ch publishChannel, log *logger.Log) *Publisher {
	return &Publisher{ch: ch, log: log}
}

// Publish JSON encodes msg, anonymous structs and maps included, and
// publishes it as a persistent message.
func (p *Publisher) Publish(ctx context.Context, exchange, key string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	id := uuid.NewString()
	entry := p.log.With(
		zap.String(logger.KeyMsgExchange, exchange),
		zap.String(logger.KeyMsgRoutingKey, key),
		zap.String(logger.KeyMsgID, id),
	)

	err = p.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    id,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		entry.ErrorValue("failed to publish message", msg, err)
		return fmt.Errorf("failed to publish to %q: %w", exchange, err)
	}
	entry.DebugValue("message published", msg)
	return nil
}

// Send publishes msg straight to queue through the default exchange.
func (p *Publisher) Send(ctx context.Context, queue string, msg any) error {
	return p.Publish(ctx, "", queue, msg)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
