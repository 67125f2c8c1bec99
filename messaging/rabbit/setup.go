package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-devkit/logconv/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("rabbit client is closed")

// Client owns one AMQP connection. Channels are opened per publisher and per
// consumer.
type Client struct {
	cfg  Config
	conn *amqp.Connection
	log  *logger.Log

	mu     sync.Mutex
	closed bool
}

// Dial connects using cfg, defaults applied.
func Dial(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	uri, err := cfg.URI()
	if err != nil {
		return nil, err
	}
	entry := newLog()
	conn, err := amqp.Dial(uri)
	if err != nil {
		entry.ErrorErr("failed to connect to rabbit", err)
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.HostAddress, err)
	}
	entry.With(zap.String("host_address", cfg.HostAddress)).Info("connected to rabbit")
	return &Client{cfg: cfg, conn: conn, log: entry}, nil
}

func newLog() *logger.Log {
	return logger.NewLog(logger.NewEntry().With(zap.String(logger.KeyServiceModule, "rabbit")))
}

func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) channel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return ch, nil
}

// Publisher opens a channel dedicated to publishing.
func (c *Client) Publisher() (*Publisher, error) {
	ch, err := c.channel()
	if err != nil {
		return nil, err
	}
	return newPublisher(ch, c.log), nil
}

// Consume blocks handling deliveries from queue until ctx is done or the
// channel is closed by the broker.
func (c *Client) Consume(ctx context.Context, queue string, handler Handler) error {
	ch, err := c.channel()
	if err != nil {
		return err
	}
	return consume(ctx, ch, c.cfg, queue, handler, c.log)
}

// DeclareTemporaryQueue declares an exclusive auto-deleted queue named by
// TemporaryQueueName(prefix) and returns its name.
func (c *Client) DeclareTemporaryQueue(prefix string) (string, error) {
	ch, err := c.channel()
	if err != nil {
		return "", err
	}
	defer func() { _ = ch.Close() }()

	q, err := ch.QueueDeclare(
		TemporaryQueueName(prefix),
		false, // Durable
		true,  // AutoDelete
		true,  // Exclusive
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		return "", fmt.Errorf("failed to declare queue: %w", err)
	}
	return q.Name, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}
