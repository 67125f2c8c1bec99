package rabbit

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-devkit/logconv/convention"
	"github.com/golang-devkit/logconv/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func consume(ctx context.Context, ch consumeChannel, cfg Config, queue string, handler Handler, log *logger.Log) error {
	cfg = cfg.withDefaults()
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch count: %w", err)
	}
	deliveries, err := ch.Consume(
		queue,
		"",    // Consumer tag generated by the server
		false, // AutoAck
		false, // Exclusive
		false, // NoLocal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		return fmt.Errorf("failed to consume %q: %w", queue, err)
	}

	entry := log.With(zap.String(logger.KeyMsgQueue, queue))
	entry.InfoMapping("consumer started", convention.NewMapping(
		convention.F("queue", queue),
		convention.F("prefetch_count", cfg.PrefetchCount),
		convention.F("concurrency_limit", cfg.ConcurrencyLimit),
	))

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, cfg.ConcurrencyLimit)
	)
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				entry.Warn("delivery channel closed")
				return nil
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				// Unhandled, the broker redelivers it once the channel closes.
				return nil
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer func() {
					<-sem
					wg.Done()
				}()
				handle(ctx, d, handler, entry)
			}(d)
		}
	}
}

func handle(ctx context.Context, d amqp.Delivery, handler Handler, entry *logger.Log) {
	entry = entry.With(zap.String(logger.KeyMsgID, d.MessageId))
	if err := handler(ctx, d); err != nil {
		entry.ErrorMapping("message rejected", convention.NewMapping(
			convention.F("routing_key", d.RoutingKey),
			convention.F("redelivered", d.Redelivered),
		), err)
		if nerr := d.Nack(false, false); nerr != nil {
			entry.WarnErr("failed to reject message", nerr)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		entry.WarnErr("failed to acknowledge message", err)
	}
}
