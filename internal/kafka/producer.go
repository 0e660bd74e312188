package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	noteWriter    *kafka.Writer
	paymentWriter *kafka.Writer
	termWriter    *kafka.Writer
}

// NewProducer creates a Kafka producer with one writer per topic.
func NewProducer(brokers []string) *Producer {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 10 * time.Second,
			ReadTimeout:  10 * time.Second,
		}
	}

	return &Producer{
		noteWriter:    newWriter(events.NoteActivityTopic),
		paymentWriter: newWriter(events.PaymentActivityTopic),
		termWriter:    newWriter(events.TermChangesTopic),
	}
}

// PublishNoteEvent publishes a note lifecycle event to safe.note.activity.
func (p *Producer) PublishNoteEvent(ctx context.Context, event *events.NoteEvent) error {
	return p.publish(ctx, p.noteWriter, []byte(event.NoteID), event, event.EventType)
}

// PublishPaymentEvent publishes a payment event to safe.payment.activity.
func (p *Producer) PublishPaymentEvent(ctx context.Context, event *events.PaymentEvent) error {
	return p.publish(ctx, p.paymentWriter, []byte(event.NoteID), event, event.EventType)
}

// PublishTermEvent publishes a term-propagation event to safe.term.changes.
// Keyed by company so recomputations for one company stay ordered.
func (p *Producer) PublishTermEvent(ctx context.Context, event *events.TermEvent) error {
	return p.publish(ctx, p.termWriter, []byte(event.CompanyID), event, event.EventType)
}

func (p *Producer) publish(ctx context.Context, w *kafka.Writer, key []byte, event interface{}, eventType string) error {
	value, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("eventType", eventType).Msg("failed to marshal event")
		return err
	}

	err = w.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("eventType", eventType).Msg("failed to publish event")
		return err
	}

	log.Info().Str("eventType", eventType).Str("topic", w.Topic).Msg("published event")
	return nil
}

// Close closes all writers.
func (p *Producer) Close() error {
	var firstErr error
	for _, w := range []*kafka.Writer{p.noteWriter, p.paymentWriter, p.termWriter} {
		if w == nil {
			continue
		}
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
