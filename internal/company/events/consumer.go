package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer reads company events back off the topic and hands each decoded
// envelope to a registered handler.
type Consumer struct {
	reader  *kafka.Reader
	logger  *zap.Logger
	handler func(context.Context, Envelope) error
}

// NewConsumer builds a consumer for the company topic.
func NewConsumer(brokers []string, topic, groupID string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger: logger.Named("kafka_consumer"),
	}
}

// RegisterHandler sets the function invoked for each consumed envelope.
// Must be called before Start.
func (c *Consumer) RegisterHandler(fn func(context.Context, Envelope) error) {
	c.handler = fn
}

// Start fetches messages until ctx is cancelled. Decode and handler
// failures are logged and the message is skipped.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("Failed to fetch message", zap.Error(err))
				continue
			}

			var env Envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				c.logger.Error("Failed to parse envelope",
					zap.Error(err),
					zap.ByteString("value", msg.Value),
				)
				continue
			}

			if c.handler != nil {
				if err := c.handler(ctx, env); err != nil {
					c.logger.Error("Failed to handle envelope",
						zap.Error(err),
						zap.String("event", env.EventName),
					)
					continue
				}
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit message",
					zap.Error(err),
					zap.String("event", env.EventName),
				)
			}
		}
	}()
}

// Close shuts the underlying reader down.
func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}
