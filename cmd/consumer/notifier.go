package main

import (
	"context"
	"encoding/json"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier turns domain events into user-facing notifications. Actual email
// delivery hangs off this point; failures are logged and swallowed so a
// broken mail pipeline never touches note or payment state.
type Notifier struct {
	users     repositories.UserRepository
	companies repositories.CompanyRepository
}

func NewNotifier(users repositories.UserRepository, companies repositories.CompanyRepository) *Notifier {
	return &Notifier{users: users, companies: companies}
}

func (n *Notifier) HandleNoteEvent(ctx context.Context, key, value []byte) error {
	var event events.NoteEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	recipients := event.NotifyUserIDs
	if len(recipients) == 0 {
		// A decline is news for the issuing side, not the recipient who
		// declined; everything else defaults to the note's recipient.
		if event.EventType == events.NoteDeclined {
			recipients = n.companyAudience(event.CompanyID)
		} else if event.RecipientID != "" {
			recipients = []string{event.RecipientID}
		}
	}

	for _, userID := range recipients {
		n.notify(userID, event.EventType, event.Message)
	}
	return nil
}

func (n *Notifier) HandlePaymentEvent(ctx context.Context, key, value []byte) error {
	var event events.PaymentEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Info().
		Str("eventType", event.EventType).
		Str("noteId", event.NoteID).
		Str("paymentId", event.PaymentID).
		Str("amount", event.Amount).
		Msg("payment notification")
	return nil
}

func (n *Notifier) companyAudience(companyID string) []string {
	id, err := uuid.Parse(companyID)
	if err != nil {
		log.Warn().Str("companyId", companyID).Msg("invalid company id in event")
		return nil
	}

	memberIDs, err := n.companies.GetMemberUserIDs(id, models.RoleOwner, models.RoleTeamMember)
	if err != nil {
		log.Warn().Err(err).Str("companyId", companyID).Msg("cannot resolve company audience")
		return nil
	}

	audience := make([]string, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		audience = append(audience, memberID.String())
	}
	return audience
}

func (n *Notifier) notify(userID, eventType, message string) {
	id, err := uuid.Parse(userID)
	if err != nil {
		log.Warn().Str("userId", userID).Msg("invalid user id in event")
		return
	}

	user, err := n.users.FindByID(id)
	if err != nil {
		log.Warn().Err(err).Str("userId", userID).Msg("cannot resolve notification target")
		return
	}

	log.Info().
		Str("email", user.Email).
		Str("eventType", eventType).
		Str("message", message).
		Msg("sending notification")
}
