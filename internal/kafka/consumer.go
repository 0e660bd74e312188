package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// MessageHandler processes one decoded message; the raw value is passed so the
// handler can unmarshal into the topic's event type.
type MessageHandler func(ctx context.Context, key, value []byte) error

type Consumer struct {
	reader   *kafka.Reader
	handlers map[string][]MessageHandler
}

// NewConsumer creates a consumer for one topic within a consumer group.
func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:   reader,
		handlers: make(map[string][]MessageHandler),
	}
}

// RegisterHandler registers a handler for a specific event type.
func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.handlers[eventType] = append(c.handlers[eventType], handler)
}

// Start consumes messages until ctx is canceled. Handler errors are logged,
// never fatal: notification delivery is best-effort.
func (c *Consumer) Start(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			log.Error().Err(err).Msg("kafka read failed")
			continue
		}

		var envelope struct {
			EventType string `json:"eventType"`
		}
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			log.Error().Err(err).Msg("failed to unmarshal event envelope")
			continue
		}

		for _, handler := range c.handlers[envelope.EventType] {
			if err := handler(ctx, msg.Key, msg.Value); err != nil {
				log.Error().Err(err).Str("eventType", envelope.EventType).Msg("event handler failed")
			}
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
