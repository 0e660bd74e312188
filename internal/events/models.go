package events

import (
	"time"

	"github.com/google/uuid"
)

// NoteEvent represents lifecycle events of a SAFE note.
type NoteEvent struct {
	EventType   string    `json:"eventType"`
	NoteID      string    `json:"noteId"`
	CompanyID   string    `json:"companyId"`
	RecipientID string    `json:"recipientId,omitempty"`
	// Users that should be notified (company owner/team members on sign).
	NotifyUserIDs []string  `json:"notifyUserIds,omitempty"`
	Message       string    `json:"message,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// PaymentEvent represents payment state changes for a SAFE note.
type PaymentEvent struct {
	EventType string    `json:"eventType"`
	PaymentID string    `json:"paymentId"`
	NoteID    string    `json:"noteId"`
	Provider  string    `json:"provider"`
	PayAs     string    `json:"payAs"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// TermEvent asks the terms worker to recompute a company's MFN maximums.
type TermEvent struct {
	EventType string    `json:"eventType"`
	CompanyID string    `json:"companyId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNoteEvent creates a note lifecycle event.
func NewNoteEvent(eventType string, noteID, companyID uuid.UUID, recipientID *uuid.UUID) *NoteEvent {
	event := &NoteEvent{
		EventType: eventType,
		NoteID:    noteID.String(),
		CompanyID: companyID.String(),
		Timestamp: time.Now(),
	}
	if recipientID != nil {
		event.RecipientID = recipientID.String()
	}
	return event
}

// NewPaymentEvent creates a payment state-change event.
func NewPaymentEvent(eventType string, paymentID, noteID uuid.UUID, provider, payAs, amount string) *PaymentEvent {
	return &PaymentEvent{
		EventType: eventType,
		PaymentID: paymentID.String(),
		NoteID:    noteID.String(),
		Provider:  provider,
		PayAs:     payAs,
		Amount:    amount,
		Timestamp: time.Now(),
	}
}

// NewTermEvent creates a term-propagation event for a company.
func NewTermEvent(companyID uuid.UUID) *TermEvent {
	return &TermEvent{
		EventType: TermsChanged,
		CompanyID: companyID.String(),
		Timestamp: time.Now(),
	}
}
