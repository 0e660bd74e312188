package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SafeNoteService owns the note lifecycle: DRAFT -> SENT -> {SIGNED, DECLINED},
// CANCELLED via explicit delete. All multi-step mutations run in one
// transaction; notification events are dispatched only after commit.
type SafeNoteService struct {
	tx         repositories.TxRunner
	notes      repositories.SafeNoteRepository
	users      repositories.UserRepository
	companies  repositories.CompanyRepository
	termSheets repositories.TermSheetRepository
	files      storage.FileStorage
	publisher  EventPublisher
}

func NewSafeNoteService(
	tx repositories.TxRunner,
	notes repositories.SafeNoteRepository,
	users repositories.UserRepository,
	companies repositories.CompanyRepository,
	termSheets repositories.TermSheetRepository,
	files storage.FileStorage,
	publisher EventPublisher,
) *SafeNoteService {
	return &SafeNoteService{
		tx:         tx,
		notes:      notes,
		users:      users,
		companies:  companies,
		termSheets: termSheets,
		files:      files,
		publisher:  publisher,
	}
}

// validateTerms enforces the term configuration invariant: mfn excludes both
// explicit terms; a finalized note needs either mfn or at least one term.
func validateTerms(discountRate, valuationCap *decimal.Decimal, mfn, requireTerms bool) error {
	if mfn && (discountRate != nil || valuationCap != nil) {
		return apperrors.Validation("mfn is mutually exclusive with discount rate and valuation cap")
	}
	if discountRate != nil {
		if discountRate.IsNegative() || discountRate.GreaterThan(decimal.NewFromInt(100)) {
			return apperrors.Validation("discount rate must be between 0 and 100")
		}
	}
	if valuationCap != nil && !valuationCap.IsPositive() {
		return apperrors.Validation("valuation cap must be positive")
	}
	if requireTerms && !mfn && discountRate == nil && valuationCap == nil {
		return apperrors.Validation("either mfn or a discount/valuation term is required")
	}
	return nil
}

// GetSafeNote loads one note.
func (s *SafeNoteService) GetSafeNote(id uuid.UUID) (*models.SafeNote, error) {
	note, err := s.notes.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("safe note %s not found", id)
		}
		return nil, apperrors.Internal("failed to load safe note", err)
	}
	return note, nil
}

// CreateSafeNote creates one note per recipient email. Recipients are
// resolved (or created) by exact email match and bound to the issuing
// company as SAFE_RECIPIENT, idempotently. Notifications and the term
// propagation pass fire only after the transaction commits.
func (s *SafeNoteService) CreateSafeNote(ctx context.Context, actor *models.User, req dto.CreateSafeNoteRequest) ([]models.SafeNote, error) {
	if !actor.EmailVerified {
		return nil, apperrors.Authorization("email must be verified before issuing notes")
	}

	company, err := s.companies.FindByID(req.SenderCompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("company %s not found", req.SenderCompanyID)
		}
		return nil, apperrors.Internal("failed to load company", err)
	}
	if company.Type != models.CompanyTypeStartup {
		return nil, apperrors.Authorization("company of type %s cannot issue safe notes", company.Type)
	}

	membership, err := s.companies.FindMembership(company.ID, actor.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to load membership", err)
	}
	if company.OwnerID != actor.ID &&
		(membership == nil || membership.Role == models.RoleSafeRecipient) {
		return nil, apperrors.Authorization("only company members can issue notes")
	}

	if !req.Draft {
		if !company.Owner.EmailVerified {
			return nil, apperrors.Authorization("company owner's email must be verified to send notes")
		}
		if len(req.RecipientEmails) == 0 {
			return nil, apperrors.Validation("at least one recipient is required")
		}
		if req.SafeAmount == nil || !req.SafeAmount.IsPositive() {
			return nil, apperrors.Validation("safe amount must be positive")
		}
	}
	if err := validateTerms(req.DiscountRate, req.ValuationCap, req.MFN, !req.Draft); err != nil {
		return nil, err
	}

	var termSheet *models.TermSheet
	if req.TermSheetID != nil {
		termSheet, err = s.termSheets.FindByID(*req.TermSheetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("term sheet %s not found", *req.TermSheetID)
			}
			return nil, apperrors.Internal("failed to load term sheet", err)
		}
	}

	status := models.SafeNoteSent
	if req.Draft {
		status = models.SafeNoteDraft
	}

	outbox := &events.Outbox{}
	var created []models.SafeNote

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		// A draft needs no recipient row; create the single detached note.
		if len(req.RecipientEmails) == 0 {
			note := models.SafeNote{
				SenderCompanyID: company.ID,
				SafeAmount:      req.SafeAmount,
				DiscountRate:    req.DiscountRate,
				ValuationCap:    req.ValuationCap,
				MFN:             req.MFN,
				Status:          status,
			}
			if err := s.notes.CreateInTx(tx, &note); err != nil {
				return err
			}
			created = append(created, note)
			return nil
		}

		for _, email := range req.RecipientEmails {
			recipient, err := s.resolveRecipientInTx(tx, email)
			if err != nil {
				return err
			}

			note := models.SafeNote{
				SenderCompanyID: company.ID,
				RecipientID:     &recipient.ID,
				SafeAmount:      req.SafeAmount,
				DiscountRate:    req.DiscountRate,
				ValuationCap:    req.ValuationCap,
				MFN:             req.MFN,
				Status:          status,
			}

			// The term-sheet link only survives when the recipient is on the
			// sheet; otherwise it is dropped and creation continues.
			if termSheet != nil {
				if termSheet.HasRecipient(recipient.ID) {
					note.TermSheetID = &termSheet.ID
				} else {
					log.Warn().
						Str("termSheetId", termSheet.ID.String()).
						Str("recipient", email).
						Msg("recipient not on term sheet, dropping link")
				}
			}

			if err := s.notes.CreateInTx(tx, &note); err != nil {
				return err
			}
			if err := s.companies.EnsureRecipientBindingInTx(tx, company.ID, recipient.ID); err != nil {
				return err
			}

			created = append(created, note)
			if status != models.SafeNoteDraft {
				outbox.Add(events.NewNoteEvent(events.NoteCreated, note.ID, company.ID, &recipient.ID))
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("failed to create safe notes", err)
	}

	outbox.Add(events.NewTermEvent(company.ID))
	dispatchOutbox(ctx, s.publisher, outbox)
	return created, nil
}

func (s *SafeNoteService) resolveRecipientInTx(tx *gorm.DB, email string) (*models.User, error) {
	recipient, err := s.users.FindByEmail(email)
	if err == nil {
		return recipient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	recipient = &models.User{Email: email}
	if err := s.users.CreateInTx(tx, recipient); err != nil {
		return nil, err
	}
	return recipient, nil
}

// UpdateSafeNote edits a draft's terms and, with notDraftAnymore, finalizes it
// into SENT. A note never moves back to draft.
func (s *SafeNoteService) UpdateSafeNote(ctx context.Context, id uuid.UUID, req dto.UpdateSafeNoteRequest) (*models.SafeNote, error) {
	outbox := &events.Outbox{}
	var updated *models.SafeNote

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		note, err := s.notes.FindByIDInTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("safe note %s not found", id)
			}
			return err
		}
		if note.Status != models.SafeNoteDraft {
			return apperrors.Conflict("only draft notes can be updated")
		}

		if req.SafeAmount != nil {
			note.SafeAmount = req.SafeAmount
		}
		if req.MFN != nil {
			note.MFN = *req.MFN
			if note.MFN {
				note.DiscountRate = nil
				note.ValuationCap = nil
			}
		}
		if req.DiscountRate != nil {
			note.DiscountRate = req.DiscountRate
		}
		if req.ValuationCap != nil {
			note.ValuationCap = req.ValuationCap
		}

		if req.RecipientEmail != nil {
			recipient, err := s.resolveRecipientInTx(tx, *req.RecipientEmail)
			if err != nil {
				return err
			}
			note.RecipientID = &recipient.ID
			if err := s.companies.EnsureRecipientBindingInTx(tx, note.SenderCompanyID, recipient.ID); err != nil {
				return err
			}
		}

		if req.NotDraftAnymore {
			if note.RecipientID == nil {
				return apperrors.Validation("a recipient is required to send the note")
			}
			if note.SafeAmount == nil || !note.SafeAmount.IsPositive() {
				return apperrors.Validation("safe amount must be positive")
			}
			if err := validateTerms(note.DiscountRate, note.ValuationCap, note.MFN, true); err != nil {
				return err
			}
			note.Status = models.SafeNoteSent
			outbox.Add(events.NewNoteEvent(events.NoteCreated, note.ID, note.SenderCompanyID, note.RecipientID))
		} else {
			if err := validateTerms(note.DiscountRate, note.ValuationCap, note.MFN, false); err != nil {
				return err
			}
		}

		if err := s.notes.SaveInTx(tx, note); err != nil {
			return err
		}
		updated = note
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("failed to update safe note", err)
	}

	dispatchOutbox(ctx, s.publisher, outbox)
	return updated, nil
}

// SignSafeNote records a signature for one role. The actor's relationship to
// the note must match signAs exactly: the issuing company's owner signs as
// SENDER, the bound recipient as RECIPIENT, nobody else signs at all. A
// recipient signature also flips the note to SIGNED, atomically.
func (s *SafeNoteService) SignSafeNote(ctx context.Context, actorID, id uuid.UUID, req dto.SignSafeNoteRequest) (*models.SafeNote, error) {
	role := models.SignatureRole(req.SignAs)
	if role != models.SignAsSender && role != models.SignAsRecipient {
		return nil, apperrors.Validation("signAs must be SENDER or RECIPIENT")
	}
	if len(req.Signature) == 0 {
		return nil, apperrors.Validation("a signature image is required")
	}

	note, err := s.GetSafeNote(id)
	if err != nil {
		return nil, err
	}
	if note.Status == models.SafeNoteDraft {
		return nil, apperrors.Conflict("a draft note cannot be signed")
	}
	if note.Status == models.SafeNoteDeclined || note.Status == models.SafeNoteCancelled {
		return nil, apperrors.Conflict("note is %s and can no longer be signed", note.Status)
	}

	company, err := s.companies.FindByID(note.SenderCompanyID)
	if err != nil {
		return nil, apperrors.Internal("failed to load company", err)
	}

	switch role {
	case models.SignAsSender:
		if company.OwnerID != actorID {
			return nil, apperrors.Authorization("only the issuing company's owner may sign as sender")
		}
	case models.SignAsRecipient:
		if note.RecipientID == nil || *note.RecipientID != actorID {
			return nil, apperrors.Authorization("only the note's recipient may sign as recipient")
		}
		if note.Status == models.SafeNoteSigned {
			return nil, apperrors.Conflict("note is already signed")
		}
	}
	if note.Signed(role) {
		return nil, apperrors.Conflict("note is already signed as %s", role)
	}

	key := fmt.Sprintf("signatures/notes/%s/%s.png", note.ID, role)
	url, err := s.files.Save(ctx, req.Signature, key)
	if err != nil {
		return nil, apperrors.Internal("failed to store signature", err)
	}

	outbox := &events.Outbox{}
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		// Conditional write: the slot must still be empty at commit time, so
		// two concurrent sign attempts cannot both win.
		ok, err := s.notes.SetSignatureInTx(tx, note.ID, role, url, req.Name, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Conflict("note is already signed as %s", role)
		}

		if role == models.SignAsRecipient {
			if err := s.notes.SetStatusInTx(tx, note.ID, models.SafeNoteSigned); err != nil {
				return err
			}

			memberIDs, err := s.companies.GetMemberUserIDs(company.ID, models.RoleOwner, models.RoleTeamMember)
			if err != nil {
				return err
			}
			event := events.NewNoteEvent(events.NoteSigned, note.ID, company.ID, note.RecipientID)
			for _, memberID := range memberIDs {
				event.NotifyUserIDs = append(event.NotifyUserIDs, memberID.String())
			}
			outbox.Add(event)
			outbox.Add(events.NewTermEvent(company.ID))
		}
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("failed to sign safe note", err)
	}

	dispatchOutbox(ctx, s.publisher, outbox)
	return s.GetSafeNote(id)
}

// DeclineSafeNote moves a SENT note to DECLINED. Only the recipient declines.
func (s *SafeNoteService) DeclineSafeNote(ctx context.Context, actorID, id uuid.UUID) error {
	note, err := s.GetSafeNote(id)
	if err != nil {
		return err
	}
	if note.RecipientID == nil || *note.RecipientID != actorID {
		return apperrors.Authorization("only the note's recipient may decline it")
	}
	if note.Status != models.SafeNoteSent {
		return apperrors.Conflict("only a sent note can be declined, current status is %s", note.Status)
	}

	outbox := &events.Outbox{}
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.notes.SetStatusInTx(tx, note.ID, models.SafeNoteDeclined); err != nil {
			return err
		}
		outbox.Add(events.NewNoteEvent(events.NoteDeclined, note.ID, note.SenderCompanyID, note.RecipientID))
		return nil
	})
	if err != nil {
		return apperrors.Internal("failed to decline safe note", err)
	}

	dispatchOutbox(ctx, s.publisher, outbox)
	return nil
}

// AssignCompanyToSafeNote lets the recipient attach their angel company to
// the note, once.
func (s *SafeNoteService) AssignCompanyToSafeNote(ctx context.Context, actorID, id, companyID uuid.UUID) error {
	note, err := s.GetSafeNote(id)
	if err != nil {
		return err
	}
	if note.RecipientID == nil || *note.RecipientID != actorID {
		return apperrors.Authorization("only the note's recipient may assign a company")
	}
	if note.RecipientCompanyID != nil {
		return apperrors.Conflict("note already has an assigned recipient company")
	}

	company, err := s.companies.FindByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("company %s not found", companyID)
		}
		return apperrors.Internal("failed to load company", err)
	}
	if company.Type != models.CompanyTypeAngel {
		return apperrors.Validation("only an angel company can be assigned to a note")
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		note.RecipientCompanyID = &company.ID
		return s.notes.SaveInTx(tx, note)
	})
	if err != nil {
		return apperrors.Internal("failed to assign company", err)
	}
	return nil
}

// DeleteSafeNote hard-deletes a draft with no side effects. Any other note is
// soft-cancelled and the recipient is notified, with an optional message.
func (s *SafeNoteService) DeleteSafeNote(ctx context.Context, actorID, id uuid.UUID, message string) error {
	note, err := s.GetSafeNote(id)
	if err != nil {
		return err
	}

	company, err := s.companies.FindByID(note.SenderCompanyID)
	if err != nil {
		return apperrors.Internal("failed to load company", err)
	}
	if company.OwnerID != actorID {
		return apperrors.Authorization("only the issuing company's owner may delete a note")
	}

	if note.Status == models.SafeNoteDraft {
		err = s.tx.Transaction(func(tx *gorm.DB) error {
			return s.notes.HardDeleteInTx(tx, note.ID)
		})
		if err != nil {
			return apperrors.Internal("failed to delete safe note", err)
		}
		return nil
	}

	outbox := &events.Outbox{}
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.notes.SoftDeleteInTx(tx, note.ID); err != nil {
			return err
		}
		event := events.NewNoteEvent(events.NoteDeleted, note.ID, note.SenderCompanyID, note.RecipientID)
		event.Message = message
		outbox.Add(event)
		return nil
	})
	if err != nil {
		return apperrors.Internal("failed to delete safe note", err)
	}

	dispatchOutbox(ctx, s.publisher, outbox)
	return nil
}
