package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

// ErrPermanent marks a handler failure that will never succeed on redelivery.
// The consumer commits past such messages instead of leaving them pending.
var ErrPermanent = errors.New("kafka: permanent handler failure")

// Consumer wraps a kafka-go group reader.
type Consumer struct {
	reader     *kafkago.Reader
	handler    Handler
	logger     *slog.Logger
	backoff    time.Duration
	maxBackoff time.Duration
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithRetryBackoff sets the first retry delay for transient handler
// failures and the cap it doubles up to.
func WithRetryBackoff(initial, limit time.Duration) ConsumerOption {
	return func(c *Consumer) {
		c.backoff, c.maxBackoff = initial, max(initial, limit)
	}
}

// NewConsumer creates a Consumer for topic that dispatches to handler.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger, opts ...ConsumerOption) (*Consumer, error) {
	mech, err := cfg.saslMechanism()
	if err != nil {
		return nil, err
	}

	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	}
	if cfg.TLS || mech != nil {
		readerCfg.Dialer = &kafkago.Dialer{
			DualStack:     true,
			TLS:           cfg.tlsConfig(),
			SASLMechanism: mech,
		}
	}

	c := &Consumer{
		reader:     kafkago.NewReader(readerCfg),
		handler:    handler,
		logger:     logger,
		backoff:    500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start consumes until ctx is canceled. Messages are committed once handled
// or once the handler reports ErrPermanent; transient failures block the
// partition and are retried in place.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting", "topic", c.reader.Config().Topic, "group", c.reader.Config().GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.process(ctx, fromKafkaMessage(m)); err != nil {
			c.logger.Info("consumer stopping with message uncommitted", "topic", m.Topic, "offset", m.Offset)
			return nil
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error", "topic", m.Topic, "offset", m.Offset, "error", err)
		}
	}
}

// process runs the handler until it succeeds or fails permanently. It only
// returns an error when ctx ends first.
func (c *Consumer) process(ctx context.Context, msg Message) error {
	delay := c.backoff
	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, msg)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			c.logger.Error("skipping message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			return nil
		}

		c.logger.Warn("handler error, retrying",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"attempt", attempt,
			"retry_in", delay,
			"error", err,
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, c.maxBackoff)
	}
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}
