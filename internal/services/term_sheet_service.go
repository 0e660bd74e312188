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
	"gorm.io/gorm"
)

// TermSheetService manages batch proposals: one sheet, one row per recipient,
// each row independently accepted or rejected with its own signature.
type TermSheetService struct {
	tx         repositories.TxRunner
	termSheets repositories.TermSheetRepository
	users      repositories.UserRepository
	companies  repositories.CompanyRepository
	files      storage.FileStorage
	publisher  EventPublisher
}

func NewTermSheetService(
	tx repositories.TxRunner,
	termSheets repositories.TermSheetRepository,
	users repositories.UserRepository,
	companies repositories.CompanyRepository,
	files storage.FileStorage,
	publisher EventPublisher,
) *TermSheetService {
	return &TermSheetService{
		tx:         tx,
		termSheets: termSheets,
		users:      users,
		companies:  companies,
		files:      files,
		publisher:  publisher,
	}
}

// GetTermSheet loads a sheet with its recipient rows.
func (s *TermSheetService) GetTermSheet(id uuid.UUID) (*models.TermSheet, error) {
	sheet, err := s.termSheets.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("term sheet %s not found", id)
		}
		return nil, apperrors.Internal("failed to load term sheet", err)
	}
	return sheet, nil
}

// CreateTermSheet creates the sheet and one pending row per recipient in a
// single transaction.
func (s *TermSheetService) CreateTermSheet(ctx context.Context, actor *models.User, req dto.CreateTermSheetRequest) (*models.TermSheet, error) {
	company, err := s.companies.FindByID(req.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("company %s not found", req.CompanyID)
		}
		return nil, apperrors.Internal("failed to load company", err)
	}
	if company.OwnerID != actor.ID {
		return nil, apperrors.Authorization("only the company owner may create term sheets")
	}
	if len(req.RecipientEmails) == 0 {
		return nil, apperrors.Validation("at least one recipient is required")
	}
	if err := validateTerms(req.DiscountRate, req.ValuationCap, req.MFN, true); err != nil {
		return nil, err
	}

	sheet := &models.TermSheet{
		CompanyID:    company.ID,
		SafeAmount:   req.SafeAmount,
		DiscountRate: req.DiscountRate,
		ValuationCap: req.ValuationCap,
		MFN:          req.MFN,
	}

	outbox := &events.Outbox{}
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		for _, email := range req.RecipientEmails {
			recipient, err := s.users.FindByEmail(email)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				recipient = &models.User{Email: email}
				if err := s.users.CreateInTx(tx, recipient); err != nil {
					return err
				}
			}
			sheet.Recipients = append(sheet.Recipients, models.TermSheetUser{
				UserID: recipient.ID,
				Status: models.TermSheetPending,
			})
		}
		if err := s.termSheets.CreateInTx(tx, sheet); err != nil {
			return err
		}
		outbox.Add(events.NewNoteEvent(events.TermSheetCreated, sheet.ID, company.ID, nil))
		return nil
	})
	if err != nil {
		return nil, apperrors.Internal("failed to create term sheet", err)
	}

	dispatchOutbox(ctx, s.publisher, outbox)
	return sheet, nil
}

// RespondToTermSheet records the actor's accept/reject on their own row.
// Accepting stores the signature artifact; a row responds at most once.
func (s *TermSheetService) RespondToTermSheet(ctx context.Context, actorID, sheetID uuid.UUID, req dto.RespondTermSheetRequest) error {
	row, err := s.termSheets.FindRecipientRow(sheetID, actorID)
	if err != nil {
		return apperrors.Internal("failed to load term sheet row", err)
	}
	if row == nil {
		return apperrors.Authorization("you are not a recipient of this term sheet")
	}
	if row.Status != models.TermSheetPending {
		return apperrors.Conflict("term sheet already responded to with %s", row.Status)
	}

	if req.Accept {
		if len(req.Signature) == 0 {
			return apperrors.Validation("a signature is required to accept")
		}
		key := fmt.Sprintf("signatures/termsheets/%s/%s.png", sheetID, actorID)
		url, err := s.files.Save(ctx, req.Signature, key)
		if err != nil {
			return apperrors.Internal("failed to store signature", err)
		}
		now := time.Now()
		row.Status = models.TermSheetAccepted
		row.SignatureURL = &url
		row.SignedAt = &now
	} else {
		row.Status = models.TermSheetRejected
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		return s.termSheets.SaveRecipientInTx(tx, row)
	})
	if err != nil {
		return apperrors.Internal("failed to update term sheet", err)
	}
	return nil
}
