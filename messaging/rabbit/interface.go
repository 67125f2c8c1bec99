package rabbit

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one delivery. A nil error acknowledges it, any other
// error rejects it without requeue so the broker can dead letter it.
type Handler func(ctx context.Context, d amqp.Delivery) error

// publishChannel is the subset of *amqp.Channel used to publish.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// consumeChannel is the subset of *amqp.Channel used to consume.
type consumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}
