package rabbit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type fakeAcknowledger struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked = append(f.nacked, tag)
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

type fakeConsumeChannel struct {
	deliveries chan amqp.Delivery
	prefetch   int
	closed     bool
}

func (f *fakeConsumeChannel) Qos(prefetchCount, _ int, _ bool) error {
	f.prefetch = prefetchCount
	return nil
}

func (f *fakeConsumeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeConsumeChannel) Close() error {
	f.closed = true
	return nil
}

func TestConsume_AckAndReject(t *testing.T) {
	log, _ := observedLog(zapcore.InfoLevel)
	ack := &fakeAcknowledger{}
	ch := &fakeConsumeChannel{deliveries: make(chan amqp.Delivery, 3)}
	for tag := uint64(1); tag <= 3; tag++ {
		ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: tag}
	}
	close(ch.deliveries)

	err := consume(context.Background(), ch, Config{}, "orders", func(_ context.Context, d amqp.Delivery) error {
		if d.DeliveryTag == 2 {
			return errors.New("bad message")
		}
		return nil
	}, log)
	require.NoError(t, err)

	assert.Equal(t, DefaultPrefetchCount, ch.prefetch)
	assert.True(t, ch.closed)
	assert.ElementsMatch(t, []uint64{1, 3}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
}

func TestConsume_ConcurrencyLimit(t *testing.T) {
	log, _ := observedLog(zapcore.InfoLevel)
	ack := &fakeAcknowledger{}
	ch := &fakeConsumeChannel{deliveries: make(chan amqp.Delivery, 20)}
	for tag := uint64(1); tag <= 20; tag++ {
		ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: tag}
	}
	close(ch.deliveries)

	var running, peak int32
	err := consume(context.Background(), ch, Config{ConcurrencyLimit: 3, PrefetchCount: 5}, "orders",
		func(context.Context, amqp.Delivery) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		}, log)
	require.NoError(t, err)

	assert.Equal(t, 5, ch.prefetch)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.Len(t, ack.acked, 20)
}

func TestConsume_StopsOnCancel(t *testing.T) {
	log, _ := observedLog(zapcore.InfoLevel)
	ch := &fakeConsumeChannel{deliveries: make(chan amqp.Delivery)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- consume(ctx, ch, Config{}, "orders", func(context.Context, amqp.Delivery) error { return nil }, log)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}
