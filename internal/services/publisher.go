package services

import (
	"context"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"
)

// EventPublisher is the notification side channel. Delivery is best-effort:
// publish failures are logged by the implementation and never fail the
// operation that raised the event.
type EventPublisher interface {
	PublishNoteEvent(ctx context.Context, event *events.NoteEvent) error
	PublishPaymentEvent(ctx context.Context, event *events.PaymentEvent) error
	PublishTermEvent(ctx context.Context, event *events.TermEvent) error
}

// dispatchOutbox publishes everything collected during a transaction. Must be
// called only after the transaction committed; a rollback drops the outbox.
func dispatchOutbox(ctx context.Context, publisher EventPublisher, outbox *events.Outbox) {
	if publisher == nil {
		return
	}
	for _, entry := range outbox.Entries() {
		switch event := entry.(type) {
		case *events.NoteEvent:
			_ = publisher.PublishNoteEvent(ctx, event)
		case *events.PaymentEvent:
			_ = publisher.PublishPaymentEvent(ctx, event)
		case *events.TermEvent:
			_ = publisher.PublishTermEvent(ctx, event)
		}
	}
}
