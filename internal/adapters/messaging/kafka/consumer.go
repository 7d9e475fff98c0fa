package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageHandler processes one message. A nil return commits the offset.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// ConsumerConfig configures the collaborator event reader.
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	GroupID       string
	MinBytes      int
	MaxBytes      int
	MaxWait       time.Duration
	// MaxAttempts is the number of failed attempts after which retries are
	// logged as errors. A failing message is retried until it succeeds.
	MaxAttempts      int
	RetryInterval    time.Duration
	MaxRetryInterval time.Duration
}

// messageReader is the subset of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads collaborator events and hands them to a MessageHandler.
type Consumer struct {
	reader        messageReader
	logger        *slog.Logger
	topic            string
	maxAttempts      int
	retryInterval    time.Duration
	maxRetryInterval time.Duration
}

// NewConsumer creates a consumer-group reader for cfg.Topic.
func NewConsumer(logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.FirstOffset,
	})
	return newConsumer(reader, logger, cfg)
}

func newConsumer(reader messageReader, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	maxInterval := cfg.MaxRetryInterval
	if maxInterval < cfg.RetryInterval {
		maxInterval = cfg.RetryInterval
	}
	return &Consumer{
		reader:           reader,
		logger:           logger,
		topic:            cfg.Topic,
		maxAttempts:      attempts,
		retryInterval:    cfg.RetryInterval,
		maxRetryInterval: maxInterval,
	}
}

// Run fetches messages until ctx is cancelled. A message is committed only
// after its handler succeeds, and the next message is not fetched before
// that, so offsets never move past an unprocessed event.
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Consuming collaborator events", "topic", c.topic)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Context canceled, stopping consumer", "topic", c.topic)
				return nil
			}
			c.logger.Error("Failed to fetch message from Kafka", "topic", c.topic, "error", err)
			if !sleep(ctx, time.Second) {
				return nil
			}
			continue
		}

		c.logger.Debug("Received message from Kafka",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
		)

		if !c.handle(ctx, handler, msg) {
			c.logger.Info("Context canceled before message was processed, offset not committed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message after successful processing",
				"topic", msg.Topic,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

// handle retries msg with exponential backoff until the handler succeeds.
// It returns false only when ctx ends first.
func (c *Consumer) handle(ctx context.Context, handler MessageHandler, msg kafka.Message) bool {
	wait := c.retryInterval
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg.Key, msg.Value)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		log := c.logger.Warn
		if attempt >= c.maxAttempts {
			log = c.logger.Error
		}
		log("Failed to process message, retrying",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
			"attempt", attempt,
			"retry_in", wait.String(),
			"error", err,
		)
		if !sleep(ctx, wait) {
			return false
		}
		wait = nextInterval(wait, c.maxRetryInterval)
	}
}

func nextInterval(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
