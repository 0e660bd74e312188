package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSafeNoteRequest fans out to one note per recipient email.
type CreateSafeNoteRequest struct {
	SenderCompanyID uuid.UUID        `json:"senderCompanyId" binding:"required"`
	RecipientEmails []string         `json:"recipientEmails"`
	TermSheetID     *uuid.UUID       `json:"termSheetId"`
	SafeAmount      *decimal.Decimal `json:"safeAmount"`
	DiscountRate    *decimal.Decimal `json:"discountRate"`
	ValuationCap    *decimal.Decimal `json:"valuationCap"`
	MFN             bool             `json:"mfn"`
	Draft           bool             `json:"draft"`
}

type UpdateSafeNoteRequest struct {
	SafeAmount   *decimal.Decimal `json:"safeAmount"`
	DiscountRate *decimal.Decimal `json:"discountRate"`
	ValuationCap *decimal.Decimal `json:"valuationCap"`
	MFN          *bool            `json:"mfn"`
	// NotDraftAnymore finalizes a draft: requires a resolved recipient and
	// moves the note to SENT.
	NotDraftAnymore bool    `json:"notDraftAnymore"`
	RecipientEmail  *string `json:"recipientEmail"`
}

type SignSafeNoteRequest struct {
	SignAs    string `json:"signAs" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Signature []byte `json:"signature" binding:"required"`
}

type DeleteSafeNoteRequest struct {
	Message string `json:"message"`
}

type AssignCompanyRequest struct {
	CompanyID uuid.UUID `json:"companyId" binding:"required"`
}
