// Package kafka publishes and consumes JSON events over segmentio/kafka-go.
// The indexer announces finished builds with a Producer; every searcher
// follows them with a Consumer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/config"
)

// MessageHandler processes one message value. Returning an error leaves the
// message uncommitted so it is redelivered after a restart.
type MessageHandler func(ctx context.Context, key, value []byte) error

const fetchBackoff = time.Second

type Consumer struct {
	reader    *kafka.Reader
	handler   MessageHandler
	eventType string
	logger    *slog.Logger
}

// NewConsumer reads topic as cfg.ConsumerGroup starting from the newest
// offset. When eventType is non-empty, messages carrying a different
// event-type header are committed without reaching handler.
func NewConsumer(cfg config.KafkaConfig, topic, eventType string, handler MessageHandler) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       topic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    1,
			MaxBytes:    1 << 20,
			StartOffset: kafka.LastOffset,
		}),
		handler:   handler,
		eventType: eventType,
		logger:    slog.Default().With("component", "kafka-consumer", "topic", topic, "group", cfg.ConsumerGroup),
	}
}

// Start consumes until ctx is cancelled, then closes the reader.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping")
				return c.reader.Close()
			}
			c.logger.Error("fetch failed", "error", err, "retry_in", fetchBackoff)
			select {
			case <-time.After(fetchBackoff):
			case <-ctx.Done():
			}
			continue
		}
		c.process(ctx, msg)
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	log := c.logger.With("partition", msg.Partition, "offset", msg.Offset)
	if t := EventType(msg); c.eventType != "" && t != "" && t != c.eventType {
		log.Debug("skipping event", "type", t)
	} else if err := c.handler(ctx, msg.Key, msg.Value); err != nil {
		log.Error("handler failed, leaving uncommitted", "error", err)
		return
	}
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit failed", "error", err)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// DecodeJSON unmarshals a message value into T.
func DecodeJSON[T any](value []byte) (T, error) {
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return v, fmt.Errorf("decoding %T: %w", v, err)
	}
	return v, nil
}
