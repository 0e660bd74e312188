package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/payments"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PaymentService orchestrates the three payment rails behind one entry point
// and reconciles asynchronous provider webhooks into note/payment state.
type PaymentService struct {
	tx        repositories.TxRunner
	notes     repositories.SafeNoteRepository
	payments  repositories.PaymentRepository
	users     repositories.UserRepository
	providers map[models.PaymentProvider]payments.Provider
	publisher EventPublisher
}

func NewPaymentService(
	tx repositories.TxRunner,
	notes repositories.SafeNoteRepository,
	paymentRepo repositories.PaymentRepository,
	users repositories.UserRepository,
	providers map[models.PaymentProvider]payments.Provider,
	publisher EventPublisher,
) *PaymentService {
	return &PaymentService{
		tx:        tx,
		notes:     notes,
		payments:  paymentRepo,
		users:     users,
		providers: providers,
		publisher: publisher,
	}
}

// ProcessPayment starts a payment flow for a note. A note that is already
// paid, or already has a payment in progress, is rejected before any external
// call is made.
func (s *PaymentService) ProcessPayment(ctx context.Context, payer *models.User, noteID uuid.UUID, req dto.ProcessPaymentRequest) (*dto.ProcessPaymentResponse, error) {
	provider := models.PaymentProvider(req.Provider)
	impl, ok := s.providers[provider]
	if !ok {
		return nil, apperrors.Validation("unknown payment provider %q", req.Provider)
	}

	payAs := models.PayAs(req.PayAs)
	if payAs != models.PayAsCompany && payAs != models.PayAsAngel {
		return nil, apperrors.Validation("payAs must be COMPANY or ANGEL")
	}

	note, err := s.loadNote(noteID)
	if err != nil {
		return nil, err
	}
	// Only a live note collects: paid may flip true solely while the note is
	// SENT or SIGNED, and MarkPaidInTx forces SIGNED, so letting a draft or
	// declined note in here would resurrect it.
	if note.Status != models.SafeNoteSent && note.Status != models.SafeNoteSigned {
		return nil, apperrors.Conflict("a %s note cannot be paid", note.Status)
	}
	if note.Paid {
		return nil, apperrors.Conflict("note is already paid")
	}
	if note.PaymentID != nil {
		return nil, apperrors.Conflict("a payment is already in progress for this note")
	}
	if note.SafeAmount == nil || !note.SafeAmount.IsPositive() {
		return nil, apperrors.Validation("note has no positive safe amount to collect")
	}

	switch provider {
	case models.ProviderStripe:
		return s.processStripe(ctx, impl, payer, note, req, payAs)
	case models.ProviderPlaid:
		return s.processPlaid(ctx, impl, payer, note, req, payAs)
	case models.ProviderReceipt:
		return s.processReceipt(ctx, payer, note, req, payAs)
	default:
		return nil, apperrors.Validation("unknown payment provider %q", req.Provider)
	}
}

// processStripe runs the card path. The charged amount is the notional amount
// plus processor and platform fees. The local Payment row is committed before
// the processor is called, so a local record exists even when the external
// call fails; final status arrives later via webhook.
func (s *PaymentService) processStripe(ctx context.Context, provider payments.Provider, payer *models.User, note *models.SafeNote, req dto.ProcessPaymentRequest, payAs models.PayAs) (*dto.ProcessPaymentResponse, error) {
	charged := ChargeAmount(*note.SafeAmount)

	payment := models.Payment{
		SafeNoteID: note.ID,
		PayerID:    payer.ID,
		Provider:   models.ProviderStripe,
		Status:     models.PaymentCreated,
		PayAs:      payAs,
		Amount:     charged,
	}
	if err := s.createAndAttach(note.ID, &payment); err != nil {
		return nil, err
	}

	customerID := ""
	if payer.StripeCustomerID != nil {
		customerID = *payer.StripeCustomerID
	}
	auth, err := provider.Authorize(ctx, payments.AuthorizeRequest{
		PayerEmail: payer.Email,
		PayerName:  payer.FullName,
		CustomerID: customerID,
	})
	if err != nil {
		s.releasePayment(note.ID, payment.ID, err)
		return nil, apperrors.Provider("cannot create payment", err)
	}
	if customerID == "" {
		err = s.tx.Transaction(func(tx *gorm.DB) error {
			return s.users.SetStripeCustomerInTx(tx, payer.ID, auth.ID)
		})
		if err != nil {
			log.Error().Err(err).Str("userId", payer.ID.String()).Msg("failed to persist stripe customer id")
		}
	}

	charge, err := provider.Charge(ctx, payments.ChargeRequest{
		CustomerID:      auth.ID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          charged,
		Description:     fmt.Sprintf("SAFE note %s", note.ID),
	})
	if err != nil {
		s.releasePayment(note.ID, payment.ID, err)
		return nil, apperrors.Provider("cannot create payment", err)
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		return s.payments.SetExternalIDInTx(tx, payment.ID, charge.ExternalID)
	})
	if err != nil {
		return nil, apperrors.Internal("failed to bind payment intent", err)
	}
	payment.ExternalID = charge.ExternalID

	clientSecret := charge.ClientSecret
	return &dto.ProcessPaymentResponse{ClientSecret: &clientSecret, Payment: payment}, nil
}

// processPlaid runs the bank-transfer path: authorization decision first, a
// declined decision fails immediately with the provider's reason. Some rails
// settle in the create call, in which case success side effects fire now.
func (s *PaymentService) processPlaid(ctx context.Context, provider payments.Provider, payer *models.User, note *models.SafeNote, req dto.ProcessPaymentRequest, payAs models.PayAs) (*dto.ProcessPaymentResponse, error) {
	auth, err := provider.Authorize(ctx, payments.AuthorizeRequest{
		PayerName:   payer.FullName,
		AccessToken: req.PlaidAccessToken,
		AccountID:   req.PlaidAccountID,
		Amount:      *note.SafeAmount,
	})
	if err != nil {
		return nil, apperrors.Provider("cannot create payment", err)
	}
	if auth.Declined {
		return nil, apperrors.Provider(
			fmt.Sprintf("transfer authorization declined: %s", auth.DeclineReason), nil)
	}

	charge, err := provider.Charge(ctx, payments.ChargeRequest{
		AuthorizationID: auth.ID,
		AccessToken:     req.PlaidAccessToken,
		AccountID:       req.PlaidAccountID,
		Amount:          *note.SafeAmount,
		Description:     "SAFE note",
	})
	if err != nil {
		return nil, apperrors.Provider("cannot create payment", err)
	}

	mapped := payments.MapProviderStatus(charge.Status)
	payment := models.Payment{
		SafeNoteID: note.ID,
		PayerID:    payer.ID,
		Provider:   models.ProviderPlaid,
		Status:     mapped,
		PayAs:      payAs,
		Amount:     *note.SafeAmount,
		ExternalID: charge.ExternalID,
	}

	outbox := &events.Outbox{}
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.payments.CreateInTx(tx, &payment); err != nil {
			return err
		}
		ok, err := s.notes.AttachPaymentInTx(tx, note.ID, payment.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Conflict("a payment is already in progress for this note")
		}
		// Same-call settlement: some transfer rails are final immediately.
		if mapped == models.PaymentPaid {
			if err := s.notes.MarkPaidInTx(tx, note.ID, payment.ID); err != nil {
				return err
			}
			s.addSuccessEvents(outbox, &payment)
		}
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("failed to record payment", err)
	}

	dispatchOutbox(ctx, s.publisher, outbox)
	return &dto.ProcessPaymentResponse{ClientSecret: nil, Payment: payment}, nil
}

// processReceipt records a manual/offline payment pending reconciliation.
// No external call is made.
func (s *PaymentService) processReceipt(ctx context.Context, payer *models.User, note *models.SafeNote, req dto.ProcessPaymentRequest, payAs models.PayAs) (*dto.ProcessPaymentResponse, error) {
	payment := models.Payment{
		SafeNoteID: note.ID,
		PayerID:    payer.ID,
		Provider:   models.ProviderReceipt,
		Status:     models.PaymentPending,
		PayAs:      payAs,
		Amount:     *note.SafeAmount,
		ReceiptURL: req.ReceiptURL,
	}

	outbox := &events.Outbox{}
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.payments.CreateInTx(tx, &payment); err != nil {
			return err
		}
		ok, err := s.notes.AttachPaymentInTx(tx, note.ID, payment.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Conflict("a payment is already in progress for this note")
		}
		outbox.Add(events.NewPaymentEvent(events.PaymentPending, payment.ID, note.ID,
			string(payment.Provider), string(payAs), payment.Amount.StringFixed(2)))
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("failed to record payment", err)
	}

	dispatchOutbox(ctx, s.publisher, outbox)
	return &dto.ProcessPaymentResponse{ClientSecret: nil, Payment: payment}, nil
}

// ReconcilePaymentUpdate applies a provider status delivered by webhook.
// Idempotent under repeated delivery: the success side effects fire only on a
// transition into PAID, and a residual PENDING never regresses a payment that
// already moved past CREATED.
func (s *PaymentService) ReconcilePaymentUpdate(ctx context.Context, externalID, providerStatus string) error {
	payment, err := s.payments.FindByExternalID(externalID)
	if err != nil {
		return apperrors.Internal("failed to load payment", err)
	}
	if payment == nil {
		log.Warn().Str("externalId", externalID).Msg("webhook for unknown payment, ignoring")
		return nil
	}

	newStatus := payments.MapProviderStatus(providerStatus)

	// Debounce: a late PENDING must not regress a payment that already left
	// CREATED.
	if newStatus == models.PaymentPending && payment.Status != models.PaymentCreated {
		return nil
	}
	if newStatus == payment.Status {
		return nil
	}

	outbox := &events.Outbox{}
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.payments.SetStatusInTx(tx, payment.ID, newStatus); err != nil {
			return err
		}

		switch newStatus {
		case models.PaymentPaid:
			if err := s.notes.MarkPaidInTx(tx, payment.SafeNoteID, payment.ID); err != nil {
				return err
			}
			s.addSuccessEvents(outbox, payment)
		case models.PaymentCanceled:
			// Failed or refunded: detach so a new payment can start. The note
			// keeps its status but is visibly unpaid again.
			if err := s.notes.DetachPaymentInTx(tx, payment.SafeNoteID); err != nil {
				return err
			}
			outbox.Add(events.NewPaymentEvent(events.PaymentFailed, payment.ID, payment.SafeNoteID,
				string(payment.Provider), string(payment.PayAs), payment.Amount.StringFixed(2)))
		}
		return nil
	})
	if err != nil {
		return apperrors.Internal("failed to reconcile payment", err)
	}

	dispatchOutbox(ctx, s.publisher, outbox)
	return nil
}

func (s *PaymentService) addSuccessEvents(outbox *events.Outbox, payment *models.Payment) {
	outbox.Add(events.NewPaymentEvent(events.PaymentSucceeded, payment.ID, payment.SafeNoteID,
		string(payment.Provider), string(payment.PayAs), payment.Amount.StringFixed(2)))
	if payment.PayAs == models.PayAsAngel {
		outbox.Add(events.NewPaymentEvent(events.FundsReceived, payment.ID, payment.SafeNoteID,
			string(payment.Provider), string(payment.PayAs), payment.Amount.StringFixed(2)))
	}
}

// createAndAttach commits the local CREATED row and links it to the note in
// one transaction, before any external call. The conditional attach closes
// the race between two concurrent payment attempts.
func (s *PaymentService) createAndAttach(noteID uuid.UUID, payment *models.Payment) error {
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.payments.CreateInTx(tx, payment); err != nil {
			return err
		}
		ok, err := s.notes.AttachPaymentInTx(tx, noteID, payment.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Conflict("a payment is already in progress for this note")
		}
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return err
		}
		return apperrors.Internal("failed to create payment", err)
	}
	return nil
}

// releasePayment detaches a payment whose external call failed. The CREATED
// row itself survives for manual retry or reconciliation.
func (s *PaymentService) releasePayment(noteID, paymentID uuid.UUID, cause error) {
	log.Error().Err(cause).
		Str("noteId", noteID.String()).
		Str("paymentId", paymentID.String()).
		Msg("external payment call failed, keeping local record")

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		return s.notes.DetachPaymentInTx(tx, noteID)
	})
	if err != nil {
		log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to detach payment")
	}
}

func (s *PaymentService) loadNote(id uuid.UUID) (*models.SafeNote, error) {
	note, err := s.notes.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("safe note %s not found", id)
		}
		return nil, apperrors.Internal("failed to load safe note", err)
	}
	return note, nil
}
